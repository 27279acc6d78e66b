package diagnostic

import (
	"errors"
	"fmt"

	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Diagnosable", func() {
	var diag *Diagnosable

	BeforeEach(func() {
		diag = NewDiagnosable(nil)
	})

	It("should number records from one", func() {
		diag.AddStatusRecord(S01004DataTruncated, "truncated", tsodbc.LogLevelWarn)
		diag.AddPositionedRecord(S22002IndicatorNeeded, "indicator needed", tsodbc.LogLevelError, 3, 2)

		Expect(diag.RecordCount()).To(Equal(2))
		_, ok := diag.GetRecord(0)
		Expect(ok).To(BeFalse())

		rec, ok := diag.GetRecord(2)
		Expect(ok).To(BeTrue())
		Expect(rec.State).To(Equal(S22002IndicatorNeeded))
		Expect(rec.RowNumber).To(Equal(int64(3)))
		Expect(rec.ColumnNumber).To(Equal(int32(2)))
	})

	It("should clear records and header on reset", func() {
		diag.AddStatusRecord(SHY000GeneralError, "boom", tsodbc.LogLevelError)
		diag.SetHeaderRecord(Error)
		diag.Reset()
		Expect(diag.RecordCount()).To(Equal(0))
		Expect(diag.ReturnCode()).To(Equal(Success))
	})

	It("should record the state of wrapped errors", func() {
		err := fmt.Errorf("executing: %w", NewError(S24000InvalidCursorState, "no row"))
		diag.AddError(err)
		rec, _ := diag.GetRecord(1)
		Expect(rec.State).To(Equal(S24000InvalidCursorState))
		Expect(rec.Message).To(Equal("no row"))
	})

	It("should record other errors as general errors", func() {
		diag.AddError(errors.New("socket closed"))
		rec, _ := diag.GetRecord(1)
		Expect(rec.State).To(Equal(SHY000GeneralError))
		Expect(rec.Message).To(Equal("socket closed"))
	})

	It("should map results to return codes", func() {
		Expect(SuccessWithInfo.SqlReturn()).To(Equal(types.SqlSuccessWithInfo))
		Expect(NoData.SqlReturn()).To(Equal(types.SqlNoData))
		Expect(Error.SqlReturn()).To(Equal(types.SqlError))
	})

	It("should tell warnings apart", func() {
		Expect(S01S07FractionalTruncation.IsWarning()).To(BeTrue())
		Expect(SHY010SequenceError.IsWarning()).To(BeFalse())
	})
})
