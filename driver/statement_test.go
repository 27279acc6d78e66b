package driver

import (
	"context"
	"time"
	"unsafe"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/timestreamquery"
	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Statement", func() {
	var (
		ctx  context.Context
		svc  *fakeService
		stmt *Statement
	)

	BeforeEach(func() {
		ctx = context.Background()
		svc = newFakeService().scriptInts("SELECT v", []int{1, 2, 3}, []int{4, 5})
		_, stmt = connect(svc)
	})

	Context("single row fetch", func() {
		It("reads every row through a bound column", func() {
			var v int32
			var ind int64
			Expect(stmt.BindColumn(1, types.CTypeSLong, unsafe.Pointer(&v), 4, &ind)).To(Equal(diagnostic.Success))
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))

			var got []int32
			for stmt.FetchRow(ctx) == diagnostic.Success {
				Expect(ind).To(Equal(int64(4)))
				got = append(got, v)
			}
			Expect(got).To(Equal([]int32{1, 2, 3, 4, 5}))
			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.NoData))
		})

		It("reads columns with GetColumnData", func() {
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))
			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Success))
			Expect(stmt.RowNumber()).To(Equal(int64(1)))

			buf := make([]byte, 16)
			var ind int64
			Expect(stmt.GetColumnData(1, types.CTypeChar, unsafe.Pointer(&buf[0]), int64(len(buf)), &ind)).To(Equal(diagnostic.Success))
			Expect(string(buf[:ind])).To(Equal("1"))

			Expect(stmt.GetColumnData(2, types.CTypeChar, unsafe.Pointer(&buf[0]), int64(len(buf)), &ind)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.S07009InvalidDescriptorIndex))
		})

		It("needs a current row for GetColumnData", func() {
			var v int32
			Expect(stmt.GetColumnData(1, types.CTypeSLong, unsafe.Pointer(&v), 4, nil)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.S24000InvalidCursorState))
		})

		It("unbinds columns", func() {
			var v int32
			Expect(stmt.BindColumn(1, types.CTypeSLong, unsafe.Pointer(&v), 4, nil)).To(Equal(diagnostic.Success))
			Expect(stmt.BindColumn(1, types.CTypeSLong, nil, 0, nil)).To(Equal(diagnostic.Success))
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))
			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Success))
			Expect(v).To(BeZero())
		})

		It("validates bindings", func() {
			var v int32
			Expect(stmt.BindColumn(0, types.CTypeSLong, unsafe.Pointer(&v), 4, nil)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.S07009InvalidDescriptorIndex))
			Expect(stmt.BindColumn(1, types.CTypeGUID, unsafe.Pointer(&v), 4, nil)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.SHY003InvalidApplicationType))
			Expect(stmt.BindParameter(1, types.CTypeSLong, types.SqlTypeInteger, unsafe.Pointer(&v), 4, nil)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.SHYC00OptionalNotImplemented))
		})
	})

	Context("row array fetch", func() {
		It("fills column-wise arrays", func() {
			var values [3]int32
			var inds [3]int64
			var statuses [3]uint16
			var fetched int64
			Expect(stmt.SetAttribute(types.StmtAttrRowArraySize, 3)).To(Equal(diagnostic.Success))
			stmt.SetRowStatusPtr(&statuses[0])
			stmt.SetRowsFetchedPtr(&fetched)
			Expect(stmt.BindColumn(1, types.CTypeSLong, unsafe.Pointer(&values[0]), 4, &inds[0])).To(Equal(diagnostic.Success))
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))

			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Success))
			Expect(fetched).To(Equal(int64(3)))
			Expect(values).To(Equal([3]int32{1, 2, 3}))
			Expect(inds).To(Equal([3]int64{4, 4, 4}))
			Expect(statuses).To(Equal([3]uint16{types.RowSuccess, types.RowSuccess, types.RowSuccess}))

			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Success))
			Expect(fetched).To(Equal(int64(2)))
			Expect(values[:2]).To(Equal([]int32{4, 5}))
			Expect(statuses).To(Equal([3]uint16{types.RowSuccess, types.RowSuccess, types.RowNoRow}))

			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.NoData))
			Expect(fetched).To(BeZero())
			Expect(statuses).To(Equal([3]uint16{types.RowNoRow, types.RowNoRow, types.RowNoRow}))
		})

		It("fills row-wise structures with a bind offset", func() {
			type row struct {
				V   int32
				_   int32
				Ind int64
			}
			var rows [4]row
			offset := int64(unsafe.Sizeof(row{}))
			Expect(stmt.SetAttribute(types.StmtAttrRowArraySize, 3)).To(Equal(diagnostic.Success))
			Expect(stmt.SetAttribute(types.StmtAttrRowBindType, int64(unsafe.Sizeof(row{})))).To(Equal(diagnostic.Success))
			stmt.SetRowBindOffsetPtr(&offset)
			Expect(stmt.BindColumn(1, types.CTypeSLong, unsafe.Pointer(&rows[0].V), 4, &rows[0].Ind)).To(Equal(diagnostic.Success))
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))

			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Success))
			Expect(rows[0].V).To(BeZero())
			Expect(rows[0].Ind).To(BeZero())
			for i := 1; i < 4; i++ {
				Expect(rows[i].V).To(Equal(int32(i)))
				Expect(rows[i].Ind).To(Equal(int64(4)))
			}
		})

		It("validates array attributes", func() {
			Expect(stmt.SetAttribute(types.StmtAttrRowArraySize, 0)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.SHY024InvalidAttributeValue))
			v, res := stmt.GetAttribute(types.StmtAttrRowArraySize)
			Expect(res).To(Equal(diagnostic.Success))
			Expect(v).To(Equal(int64(1)))
		})
	})

	Context("prepare and execute", func() {
		It("describes a prepared query before executing it", func() {
			Expect(stmt.PrepareSqlQuery("SELECT v")).To(Equal(diagnostic.Success))
			n, res := stmt.GetColumnNumber(ctx)
			Expect(res).To(Equal(diagnostic.Success))
			Expect(n).To(Equal(int16(1)))

			desc, res := stmt.DescribeColumn(ctx, 1)
			Expect(res).To(Equal(diagnostic.Success))
			Expect(desc.Name).To(Equal("v"))
			Expect(desc.DataType).To(Equal(types.SqlTypeInteger))

			_, res = stmt.DescribeColumn(ctx, 2)
			Expect(res).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.S07009InvalidDescriptorIndex))

			Expect(stmt.Execute(ctx)).To(Equal(diagnostic.Success))
			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Success))
		})

		It("needs a prepared query", func() {
			Expect(stmt.Execute(ctx)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.SHY010SequenceError))
			_, res := stmt.GetColumnNumber(ctx)
			Expect(res).To(Equal(diagnostic.Error))
		})

		It("succeeds on an empty result set", func() {
			svc.script("SELECT nothing", &timestreamquery.QueryOutput{
				QueryId:    aws.String("q-empty"),
				ColumnInfo: []tstypes.ColumnInfo{{Name: aws.String("v"), Type: &tstypes.Type{ScalarType: tstypes.ScalarTypeInteger}}},
			})
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT nothing")).To(Equal(diagnostic.Success))
			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.NoData))
		})

		It("reports column attributes", func() {
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))
			_, count, res := stmt.GetColumnAttribute(ctx, 0, types.ColAttrCount)
			Expect(res).To(Equal(diagnostic.Success))
			Expect(count).To(Equal(int64(1)))

			name, _, res := stmt.GetColumnAttribute(ctx, 1, types.ColAttrName)
			Expect(res).To(Equal(diagnostic.Success))
			Expect(name).To(Equal("v"))

			_, _, res = stmt.GetColumnAttribute(ctx, 1, types.ColAttr(60000))
			Expect(res).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.SHY091InvalidDescriptorField))
		})
	})

	Context("fetch orientation and state", func() {
		It("only fetches forward", func() {
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))
			Expect(stmt.FetchScroll(ctx, types.FetchNext+1, 0)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.SHY106FetchTypeOutOfRange))
		})

		It("needs an open result set", func() {
			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.S24000InvalidCursorState))
		})

		It("has no further result sets and no affected rows", func() {
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))
			Expect(stmt.MoreResults()).To(Equal(diagnostic.NoData))
			n, res := stmt.AffectedRows()
			Expect(res).To(Equal(diagnostic.Success))
			Expect(n).To(BeZero())
		})

		It("bounds the wait for the next page by the query timeout", func() {
			gate := svc.holdPages()
			defer close(gate)
			var v int32
			Expect(stmt.SetAttribute(types.StmtAttrQueryTimeout, 1)).To(Equal(diagnostic.Success))
			Expect(stmt.BindColumn(1, types.CTypeSLong, unsafe.Pointer(&v), 4, nil)).To(Equal(diagnostic.Success))
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))
			for i := 0; i < 3; i++ {
				Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Success))
			}

			start := time.Now()
			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.SHY008OperationCanceled))
			Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))
			Expect(stmt.Close()).To(Equal(diagnostic.Success))
		})

		It("wakes a fetch waiting for the next page on cancel", func() {
			gate := svc.holdPages()
			defer close(gate)
			var v int32
			Expect(stmt.BindColumn(1, types.CTypeSLong, unsafe.Pointer(&v), 4, nil)).To(Equal(diagnostic.Success))
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))
			for i := 0; i < 3; i++ {
				Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Success))
			}

			Eventually(func() int { return svc.requestsFor("SELECT v") }).Should(Equal(2))

			done := make(chan diagnostic.Result, 1)
			go func() {
				defer GinkgoRecover()
				done <- stmt.FetchRow(ctx)
			}()
			Consistently(done, 100*time.Millisecond).ShouldNot(Receive())
			Expect(stmt.Cancel(ctx)).To(Equal(diagnostic.Success))

			var res diagnostic.Result
			Eventually(done).Should(Receive(&res))
			Expect(res).To(Equal(diagnostic.Error))
			Expect(svc.requestsFor("SELECT v")).To(Equal(2))
		})

		It("closes and cancels", func() {
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))
			Expect(stmt.Cancel(ctx)).To(Equal(diagnostic.Success))
			Expect(stmt.Close()).To(Equal(diagnostic.Success))
			Expect(stmt.Close()).To(Equal(diagnostic.Success))
			Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.Error))
		})
	})

	Context("attributes", func() {
		It("keeps the cursor forward-only and read-only", func() {
			Expect(stmt.SetAttribute(types.StmtAttrCursorType, 3)).To(Equal(diagnostic.SuccessWithInfo))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.S01S02OptionValueChanged))
			v, _ := stmt.GetAttribute(types.StmtAttrCursorType)
			Expect(v).To(Equal(types.CursorForwardOnly))

			Expect(stmt.SetAttribute(types.StmtAttrConcurrency, 2)).To(Equal(diagnostic.SuccessWithInfo))
			v, _ = stmt.GetAttribute(types.StmtAttrConcurrency)
			Expect(v).To(Equal(types.ConcurReadOnly))
		})

		It("stores the query timeout", func() {
			Expect(stmt.SetAttribute(types.StmtAttrQueryTimeout, 30)).To(Equal(diagnostic.Success))
			v, _ := stmt.GetAttribute(types.StmtAttrQueryTimeout)
			Expect(v).To(Equal(int64(30)))
		})

		It("rejects parameter arrays and unknown attributes", func() {
			Expect(stmt.SetAttribute(types.StmtAttrParamsetSize, 2)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.SHYC00OptionalNotImplemented))
			Expect(stmt.SetAttribute(types.StmtAttrMaxRows, 10)).To(Equal(diagnostic.Error))
			Expect(firstState(stmt.Diag())).To(Equal(diagnostic.SHY092OptionTypeOutOfRange))
		})
	})

	Context("catalog functions", func() {
		BeforeEach(func() {
			svc.script("SHOW DATABASES", &timestreamquery.QueryOutput{
				QueryId:    aws.String("q-db"),
				ColumnInfo: []tstypes.ColumnInfo{{Name: aws.String("Database"), Type: &tstypes.Type{ScalarType: tstypes.ScalarTypeVarchar}}},
				Rows:       []tstypes.Row{{Data: []tstypes.Datum{{ScalarValue: aws.String("metrics")}}}},
			})
			svc.script(`SHOW TABLES FROM "metrics"`, &timestreamquery.QueryOutput{
				QueryId:    aws.String("q-tables"),
				ColumnInfo: []tstypes.ColumnInfo{{Name: aws.String("Table"), Type: &tstypes.Type{ScalarType: tstypes.ScalarTypeVarchar}}},
				Rows: []tstypes.Row{
					{Data: []tstypes.Datum{{ScalarValue: aws.String("cpu")}}},
					{Data: []tstypes.Datum{{ScalarValue: aws.String("disk")}}},
				},
			})
		})

		readNames := func(col int) []string {
			var names []string
			buf := make([]byte, 64)
			var ind int64
			Expect(stmt.BindColumn(col, types.CTypeChar, unsafe.Pointer(&buf[0]), int64(len(buf)), &ind)).To(Equal(diagnostic.Success))
			for stmt.FetchRow(ctx) == diagnostic.Success {
				names = append(names, string(buf[:ind]))
			}
			stmt.UnbindAllColumns()
			return names
		}

		It("lists tables", func() {
			Expect(stmt.ExecuteGetTablesMetaQuery(ctx, "", "metrics", "%", "")).To(Equal(diagnostic.Success))
			Expect(readNames(3)).To(Equal([]string{"cpu", "disk"}))
		})

		It("replaces a running data query", func() {
			Expect(stmt.ExecuteSqlQuery(ctx, "SELECT v")).To(Equal(diagnostic.Success))
			Expect(stmt.ExecuteGetTablesMetaQuery(ctx, "", "%", "d%", "")).To(Equal(diagnostic.Success))
			Expect(readNames(3)).To(Equal([]string{"disk"}))
			Expect(svc.requestsFor("SHOW DATABASES")).To(Equal(1))
		})

		It("lists the supported types", func() {
			Expect(stmt.ExecuteGetTypeInfoQuery(ctx, types.SqlTypeVarchar)).To(Equal(diagnostic.Success))
			Expect(readNames(1)).To(Equal([]string{"VARCHAR"}))
		})

		It("answers the unsupported catalog functions with empty result sets", func() {
			calls := []func(context.Context) diagnostic.Result{
				stmt.ExecuteGetPrimaryKeysQuery,
				stmt.ExecuteGetForeignKeysQuery,
				stmt.ExecuteGetStatisticsQuery,
				stmt.ExecuteGetProceduresQuery,
				stmt.ExecuteGetProcedureColumnsQuery,
				stmt.ExecuteGetColumnPrivilegesQuery,
				stmt.ExecuteGetTablePrivilegesQuery,
				stmt.ExecuteSpecialColumnsQuery,
			}
			for _, call := range calls {
				Expect(call(ctx)).To(Equal(diagnostic.Success))
				n, _ := stmt.GetColumnNumber(ctx)
				Expect(n).To(BeNumerically(">", 0))
				Expect(stmt.FetchRow(ctx)).To(Equal(diagnostic.NoData))
			}
		})
	})
})
