package models_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/slidepress/pkg/models"
)

var _ = Describe("Scale", func() {
	DescribeTable("ParseScale",
		func(input string, expected models.Scale, shouldFail bool) {
			scale, err := models.ParseScale(input)
			if shouldFail {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(scale).To(Equal(expected))
		},
		Entry("plain number", "2", models.ScaleDesign, false),
		Entry("with x suffix", "4x", models.ScaleMaximum, false),
		Entry("surrounding whitespace", " 3 ", models.ScalePrint, false),
		Entry("zero", "0", models.Scale(0), true),
		Entry("too large", "5", models.Scale(0), true),
		Entry("not a number", "high", models.Scale(0), true),
	)

	It("should map every level to a multiple of 72 DPI", func() {
		for i, scale := range models.Scales {
			Expect(scale.Valid()).To(BeTrue())
			Expect(scale.DPI()).To(Equal(float64(i+1) * 72))
			Expect(scale.Description()).To(HavePrefix(fmt.Sprintf("%dx", i+1)))
		}
		Expect(models.DefaultScale.DPI()).To(Equal(216.0))
	})
})
