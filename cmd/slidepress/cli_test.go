package main

import (
	"context"
	"image/color"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/slidepress/internal/pdf"
)

var _ = Describe("CLI", func() {
	var (
		baseDir    string
		outDir     string
		workDir    string
		configPath string
	)

	write := func(rel string, data []byte) string {
		path := filepath.Join(baseDir, rel)
		Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
		Expect(os.WriteFile(path, data, 0644)).To(Succeed())
		return path
	}

	archiveEntries := func(path string) []string {
		zr, err := zip.OpenReader(path)
		Expect(err).NotTo(HaveOccurred())
		defer zr.Close()
		var names []string
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		return names
	}

	BeforeEach(func() {
		var err error
		baseDir, err = os.MkdirTemp("", "slidepress-cli-*")
		Expect(err).NotTo(HaveOccurred())
		outDir = filepath.Join(baseDir, "out")
		workDir = filepath.Join(baseDir, "work")
		configPath = write("slidepress.yaml", []byte("temp_dir: "+workDir+"\n"))
	})

	AfterEach(func() {
		os.RemoveAll(baseDir)
	})

	Context("convert", func() {
		It("should write the selected pages of one PDF", func() {
			deck := write("in/deck.pdf", blankPDF(3, 200, 100))

			_, err := runCLI("convert", deck, "--config", configPath, "--output-dir", outDir, "--scale", "1", "--pages", "2-3")
			Expect(err).NotTo(HaveOccurred())
			Expect(archiveEntries(filepath.Join(outDir, "deck_images.zip"))).To(Equal([]string{"deck-02.png", "deck-03.png"}))
		})

		It("should keep same-named PDFs from different folders apart", func() {
			write("in/a/deck.pdf", blankPDF(2, 200, 100))
			write("in/b/deck.pdf", blankPDF(3, 200, 100))
			write("in/top.pdf", blankPDF(1, 200, 100))

			_, err := runCLI("convert", filepath.Join(baseDir, "in"), "--config", configPath, "--output-dir", outDir, "--scale", "1")
			Expect(err).NotTo(HaveOccurred())

			Expect(archiveEntries(filepath.Join(outDir, "a", "deck_images.zip"))).To(HaveLen(2))
			Expect(archiveEntries(filepath.Join(outDir, "b", "deck_images.zip"))).To(HaveLen(3))
			Expect(archiveEntries(filepath.Join(outDir, "top_images.zip"))).To(Equal([]string{"top-01.png"}))
			Expect(filepath.Join(outDir, "deck_images.zip")).NotTo(BeAnExistingFile())
		})

		It("should report failures in a batch but convert the rest", func() {
			write("in/good.pdf", blankPDF(1, 200, 100))
			write("in/broken.pdf", []byte("not a pdf at all"))

			_, err := runCLI("convert", filepath.Join(baseDir, "in"), "--config", configPath, "--output-dir", outDir, "--scale", "1")
			Expect(err).To(MatchError(ContainSubstring("1 of 2")))
			Expect(filepath.Join(outDir, "good_images.zip")).To(BeAnExistingFile())
		})
	})

	Context("replace", func() {
		It("should write an edited PDF with the image over the target page", func() {
			deck := write("deck.pdf", blankPDF(2, 960, 540))
			slide := write("slide.png", solidPNG(1920, 1080, color.RGBA{R: 0xff, A: 0xff}))

			_, err := runCLI("replace", deck, "--rule", "1="+slide, "--config", configPath, "--output-dir", outDir)
			Expect(err).NotTo(HaveOccurred())

			edited := filepath.Join(outDir, "deck_edited.pdf")
			data, err := os.ReadFile(edited)
			Expect(err).NotTo(HaveOccurred())

			doc, err := pdf.FitzOpener{}.Open(data)
			Expect(err).NotTo(HaveOccurred())
			defer doc.Close()
			Expect(doc.PageCount()).To(Equal(2))

			for page, want := range map[int]uint32{1: 0, 2: 0xffff} {
				img, err := doc.RenderPage(context.Background(), page, 1)
				Expect(err).NotTo(HaveOccurred())
				r, g, _, _ := img.At(480, 270).RGBA()
				Expect(r).To(BeNumerically(">", 0xf000), "page %d", page)
				Expect(g).To(BeNumerically("~", want, 0x0800), "page %d", page)
			}

			Expect(os.ReadDir(workDir)).To(BeEmpty())
		})

		It("should refuse a rule beyond the last page and write nothing", func() {
			deck := write("deck.pdf", blankPDF(1, 960, 540))
			slide := write("slide.png", solidPNG(16, 9, color.White))

			_, err := runCLI("replace", deck, "--rule", "5="+slide, "--config", configPath, "--output-dir", outDir)
			Expect(err).To(MatchError(pdf.ErrPageOutOfRange))
			Expect(filepath.Join(outDir, "deck_edited.pdf")).NotTo(BeAnExistingFile())
		})
	})

	Context("check and info", func() {
		It("should classify an image", func() {
			slide := write("slide.png", solidPNG(1920, 1080, color.White))
			out, err := runCLI("check", slide, "--config", configPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HavePrefix("ideal: "))
		})

		It("should list page dimensions", func() {
			deck := write("deck.pdf", blankPDF(2, 960, 540))
			out, err := runCLI("info", deck, "--config", configPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("2 pages"))
			Expect(out).To(ContainSubstring("Page 2: 960.000 x 540.000 points"))
		})
	})
})
