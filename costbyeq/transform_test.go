package costbyeq_test

import (
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/costpipe/costbyeq"
	"github.com/relloyd/costpipe/table"
)

var sourceColumns = []string{
	" EQNO ", "EQName", "EQCode", "WODATE", "SiteNo", "WOTypeGroupNo",
	"wo_count", "MHCost", "SparePartCost", "OutsourceCost", "maincost",
}

func sourceTable(rows ...[]interface{}) *table.Table {
	t := table.New(sourceColumns...)
	for _, r := range rows {
		Expect(t.AppendRow(r)).To(Succeed())
	}
	return t
}

var _ = Describe("Transform", func() {
	log := testLogger()

	It("returns empty input unchanged", func() {
		in := table.New(sourceColumns...)
		out, err := costbyeq.Transform(log, in)
		Expect(err).NotTo(HaveOccurred())
		Expect(out == in).To(BeTrue())

		out, err = costbyeq.Transform(log, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.IsEmpty()).To(BeTrue())
	})

	It("produces the 13 output columns in order with renamed values", func() {
		in := sourceTable(
			[]interface{}{int64(1), "Pump 1", "EQ1", "2024-03-15", int64(10), int64(7), int64(2), 100.4, 0.0, 0.0, 100.4},
		)
		out, err := costbyeq.Transform(log, in)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Columns()).To(Equal(costbyeq.OutputColumns))
		Expect(out.Record(0)).To(Equal(map[string]interface{}{
			"date":             "2024-03-15",
			"year":             int64(2024),
			"month":            int64(3),
			"site_no":          int64(10),
			"wo_count":         int64(2),
			"eq_no":            int64(1),
			"eq_code":          "EQ1",
			"eq_name":          "Pump 1",
			"mh_cost":          int64(100),
			"sparepart_cost":   int64(0),
			"outsource_cost":   int64(0),
			"main_cost":        int64(100),
			"wo_type_group_no": int64(7),
		}))
	})

	It("rounds half to even and turns garbage into zero", func() {
		in := sourceTable(
			[]interface{}{int64(1), "a", "b", "2024-01-01", int64(1), int64(1), int64(1), 12.5, 13.5, "garbage", []byte("99.50")},
		)
		out, err := costbyeq.Transform(log, in)
		Expect(err).NotTo(HaveOccurred())
		r := out.Record(0)
		Expect(r["mh_cost"]).To(Equal(int64(12)))
		Expect(r["sparepart_cost"]).To(Equal(int64(14)))
		Expect(r["outsource_cost"]).To(Equal(int64(0)))
		Expect(r["main_cost"]).To(Equal(int64(100)))
	})

	It("leaves no nulls in text or numeric columns", func() {
		in := sourceTable(
			[]interface{}{int64(2), nil, nil, "not a date", nil, nil, nil, nil, nil, nil, nil},
			[]interface{}{int64(3), "x", "y", time.Date(2023, 12, 31, 8, 0, 0, 0, time.UTC), 1.5, 2, 3, 1, 2, 3, 6},
		)
		out, err := costbyeq.Transform(log, in)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Columns()).To(Equal(costbyeq.OutputColumns))
		r := out.Record(0)
		Expect(r["date"]).To(Equal(""))
		Expect(r["eq_code"]).To(Equal(""))
		Expect(r["eq_name"]).To(Equal(""))
		Expect(r["year"]).To(Equal(int64(0)))
		Expect(r["month"]).To(Equal(int64(0)))
		Expect(r["site_no"]).To(Equal(int64(0)))
		Expect(r["main_cost"]).To(Equal(int64(0)))
		r = out.Record(1)
		Expect(r["date"]).To(Equal("2023-12-31"))
		Expect(r["month"]).To(Equal(int64(12)))
		Expect(r["site_no"]).To(Equal(int64(2)))
	})

	It("is deterministic and does not modify its input", func() {
		in := sourceTable(
			[]interface{}{int64(1), "Pump", "EQ1", "2024-03-15", int64(1), int64(1), int64(1), 1.5, 2.5, 3.5, 7.5},
		)
		first, err := costbyeq.Transform(log, in)
		Expect(err).NotTo(HaveOccurred())
		second, err := costbyeq.Transform(log, in)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
		Expect(in.Columns()).To(Equal(sourceColumns))
		v, _ := in.Column("MHCost")
		Expect(v[0]).To(Equal(1.5))
	})

	It("drops extra source columns", func() {
		in := sourceTable(
			[]interface{}{int64(1), "Pump", "EQ1", "2024-03-15", int64(1), int64(1), int64(1), 1, 2, 3, 6},
		)
		Expect(in.SetColumn("Extra", []interface{}{"x"})).To(Succeed())
		out, err := costbyeq.Transform(log, in)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.HasColumn("extra")).To(BeFalse())
		Expect(out.NumColumns()).To(Equal(13))
	})

	Context("when required columns are missing", func() {
		It("fails without a work order date", func() {
			in := table.New("EQNO")
			Expect(in.AppendRow([]interface{}{1})).To(Succeed())
			_, err := costbyeq.Transform(log, in)
			var se *costbyeq.SchemaError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Stage).To(Equal(costbyeq.StageTransform))
			Expect(se.Missing).To(Equal([]string{"wodate"}))
		})

		It("lists every missing column", func() {
			in := table.New("WODATE", "EQNO", "EQName")
			Expect(in.AppendRow([]interface{}{"2024-03-15", 1, "x"})).To(Succeed())
			_, err := costbyeq.Transform(log, in)
			var se *costbyeq.SchemaError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Missing).To(ConsistOf("eq_code", "main_cost", "mh_cost", "outsource_cost", "site_no",
				"sparepart_cost", "wo_count", "wo_type_group_no"))
			Expect(strings.HasPrefix(err.Error(), "transform: schema error: missing required columns")).To(BeTrue())
		})
	})
})
