package pdf_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/slidepress/internal/pdf"
	"github.com/kpauljoseph/slidepress/internal/rules"
)

func pngBytes(img image.Image) []byte {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

func renderedPixel(data []byte, page, x, y int) color.RGBA {
	doc, err := pdf.FitzOpener{}.Open(data)
	Expect(err).NotTo(HaveOccurred())
	defer doc.Close()

	img, err := doc.RenderPage(context.Background(), page, 1)
	Expect(err).NotTo(HaveOccurred())
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func expectColor(actual, expected color.RGBA) {
	for _, pair := range [][2]uint8{{actual.R, expected.R}, {actual.G, expected.G}, {actual.B, expected.B}} {
		ExpectWithOffset(1, int(pair[0])).To(BeNumerically("~", int(pair[1]), 8), "got %v, want %v", actual, expected)
	}
}

var _ = Describe("Replacer", func() {
	var (
		replacer *pdf.Replacer
		tempDir  string
		source   []byte
		red      = color.RGBA{R: 0xff, A: 0xff}
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "slidepress-replacer-*")
		Expect(err).NotTo(HaveOccurred())

		replacer, err = pdf.NewReplacer(tempDir, color.Black, pdfTestLogger())
		Expect(err).NotTo(HaveOccurred())

		source = blankPDF(3, 1000, 1000)
	})

	AfterEach(func() {
		Expect(replacer.Cleanup()).To(Succeed())
		Expect(os.ReadDir(tempDir)).To(BeEmpty())
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	It("should give every replacer its own work directory", func() {
		other, err := pdf.NewReplacer(tempDir, color.Black, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(os.ReadDir(tempDir)).To(HaveLen(2))

		Expect(other.Cleanup()).To(Succeed())
		Expect(os.ReadDir(tempDir)).To(HaveLen(1))

		out, err := replacer.Apply(context.Background(), source, []rules.Rule{
			{Page: 1, Image: pngBytes(solidImage(16, 9, red)), FileName: "a.png"},
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(replacer.PageCount(out)).To(Equal(3))
	})

	It("should count pages", func() {
		Expect(replacer.PageCount(source)).To(Equal(3))
	})

	It("should letterbox the image over the target page only", func() {
		var progress []int
		out, err := replacer.Apply(context.Background(), source, []rules.Rule{
			{Page: 2, Image: pngBytes(solidImage(1600, 900, red)), FileName: "new.png"},
		}, func(percent int, status string) { progress = append(progress, percent) })
		Expect(err).NotTo(HaveOccurred())
		Expect(progress).To(Equal([]int{100}))

		Expect(replacer.PageCount(out)).To(Equal(3))

		// 562.5pt tall image band centred at 218.75pt from the top
		expectColor(renderedPixel(out, 2, 500, 500), red)
		expectColor(renderedPixel(out, 2, 500, 100), color.RGBA{A: 0xff})
		expectColor(renderedPixel(out, 2, 500, 900), color.RGBA{A: 0xff})

		expectColor(renderedPixel(out, 1, 500, 500), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		expectColor(renderedPixel(out, 3, 500, 500), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	})

	It("should accept JPEG replacement images", func() {
		var buf bytes.Buffer
		Expect(jpeg.Encode(&buf, solidImage(160, 90, red), &jpeg.Options{Quality: 100})).To(Succeed())

		out, err := replacer.Apply(context.Background(), source, []rules.Rule{
			{Page: 1, Image: buf.Bytes(), FileName: "new.jpg"},
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(replacer.PageCount(out)).To(Equal(3))
	})

	It("should apply several rules regardless of input order", func() {
		data := pngBytes(solidImage(160, 90, red))
		var statuses []string
		out, err := replacer.Apply(context.Background(), source, []rules.Rule{
			{Page: 3, Image: data, FileName: "c.png"},
			{Page: 1, Image: data, FileName: "a.png"},
		}, func(percent int, status string) { statuses = append(statuses, status) })
		Expect(err).NotTo(HaveOccurred())
		Expect(statuses).To(Equal([]string{"Replacing page 1... (1/2)", "Replacing page 3... (2/2)"}))

		expectColor(renderedPixel(out, 1, 500, 500), red)
		expectColor(renderedPixel(out, 3, 500, 500), red)
	})

	It("should refuse to modify anything when a rule is out of range", func() {
		called := false
		out, err := replacer.Apply(context.Background(), source, []rules.Rule{
			{Page: 1, Image: pngBytes(solidImage(16, 9, red))},
			{Page: 4, Image: pngBytes(solidImage(16, 9, red))},
		}, func(int, string) { called = true })
		Expect(err).To(MatchError(pdf.ErrPageOutOfRange))
		Expect(out).To(BeNil())
		Expect(called).To(BeFalse())
	})

	It("should abort on an undecodable image", func() {
		out, err := replacer.Apply(context.Background(), source, []rules.Rule{
			{Page: 1, Image: pngBytes(solidImage(16, 9, red))},
			{Page: 2, Image: []byte("broken"), FileName: "broken.png"},
		}, nil)
		Expect(err).To(MatchError(pdf.ErrUnsupportedImage))
		Expect(out).To(BeNil())
	})

	It("should fail on unreadable documents", func() {
		_, err := replacer.PageCount([]byte("nope"))
		Expect(err).To(HaveOccurred())
	})
})
