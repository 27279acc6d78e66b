package athena

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/timestreamquery"
	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/util"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

// fakeAPI reports queued once, then the final state, and serves pages
// keyed by token.
type fakeAPI struct {
	mu            sync.Mutex
	finalState    types.QueryExecutionState
	statementType types.StatementType
	polls         int
	started       []*athena.StartQueryExecutionInput
	resultInputs  []*athena.GetQueryResultsInput
	stopped       []string
	pages         map[string]*athena.GetQueryResultsOutput
}

func (f *fakeAPI) StartQueryExecution(_ context.Context, params *athena.StartQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, params)
	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String("exec-1")}, nil
}

func (f *fakeAPI) GetQueryExecution(_ context.Context, params *athena.GetQueryExecutionInput, _ ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	state := f.finalState
	if f.polls == 1 {
		state = types.QueryExecutionStateQueued
	}
	return &athena.GetQueryExecutionOutput{QueryExecution: &types.QueryExecution{
		QueryExecutionId: params.QueryExecutionId,
		StatementType:    f.statementType,
		Status:           &types.QueryExecutionStatus{State: state, StateChangeReason: aws.String("table not found")},
	}}, nil
}

func (f *fakeAPI) GetQueryResults(_ context.Context, params *athena.GetQueryResultsInput, _ ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultInputs = append(f.resultInputs, params)
	return f.pages[util.SafeString(params.NextToken)], nil
}

func (f *fakeAPI) StopQueryExecution(_ context.Context, params *athena.StopQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, util.SafeString(params.QueryExecutionId))
	return &athena.StopQueryExecutionOutput{}, nil
}

func varchars(values ...*string) types.Row {
	row := types.Row{}
	for _, v := range values {
		row.Data = append(row.Data, types.Datum{VarCharValue: v})
	}
	return row
}

var metadata = &types.ResultSetMetadata{ColumnInfo: []types.ColumnInfo{
	{Name: aws.String("id"), Type: aws.String("integer")},
	{Name: aws.String("name"), Type: aws.String("varchar")},
}}

var _ = Describe("Athena client", func() {
	var (
		ctx    context.Context
		api    *fakeAPI
		client *Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		api = &fakeAPI{
			finalState:    types.QueryExecutionStateSucceeded,
			statementType: types.StatementTypeDml,
			pages: map[string]*athena.GetQueryResultsOutput{
				"": {
					ResultSet: &types.ResultSet{
						ResultSetMetadata: metadata,
						Rows: []types.Row{
							varchars(aws.String("id"), aws.String("name")),
							varchars(aws.String("1"), aws.String("a")),
						},
					},
					NextToken: aws.String("athena-token"),
				},
				"athena-token": {
					ResultSet: &types.ResultSet{
						ResultSetMetadata: metadata,
						Rows:              []types.Row{varchars(aws.String("2"), nil)},
					},
				},
			},
		}
		logger := tsodbc.NewLoggerFrom(zap.NewNop(), tsodbc.LogLevelDebug)
		client = New(api, tsodbc.AthenaConfig{
			Workgroup:      "primary",
			Database:       "sensors",
			Catalog:        "AwsDataCatalog",
			OutputLocation: "s3://results/",
			PollInterval:   time.Millisecond,
		}, logger)
	})

	It("should start the query and return the first page without header", func() {
		out, err := client.Query(ctx, &timestreamquery.QueryInput{QueryString: aws.String("SELECT id, name FROM t")})
		Expect(err).ToNot(HaveOccurred())
		Expect(api.started).To(HaveLen(1))
		started := api.started[0]
		Expect(util.SafeString(started.WorkGroup)).To(Equal("primary"))
		Expect(util.SafeString(started.QueryExecutionContext.Database)).To(Equal("sensors"))
		Expect(util.SafeString(started.QueryExecutionContext.Catalog)).To(Equal("AwsDataCatalog"))
		Expect(util.SafeString(started.ResultConfiguration.OutputLocation)).To(Equal("s3://results/"))
		Expect(util.SafeString(started.ClientRequestToken)).To(HaveLen(36))
		Expect(api.polls).To(Equal(2))

		Expect(util.SafeString(out.QueryId)).To(Equal("exec-1"))
		Expect(util.SafeString(out.NextToken)).To(Equal("exec-1:athena-token"))
		Expect(out.ColumnInfo).To(HaveLen(2))
		Expect(out.ColumnInfo[0].Type.ScalarType).To(Equal(tstypes.ScalarTypeInteger))
		Expect(out.ColumnInfo[1].Type.ScalarType).To(Equal(tstypes.ScalarTypeVarchar))
		Expect(out.Rows).To(HaveLen(1))
		Expect(util.SafeString(out.Rows[0].Data[0].ScalarValue)).To(Equal("1"))
		Expect(aws.ToInt32(api.resultInputs[0].MaxResults)).To(Equal(int32(1000)))
	})

	It("should fetch following pages from the token", func() {
		out, err := client.Query(ctx, &timestreamquery.QueryInput{
			QueryString: aws.String("SELECT id, name FROM t"),
			NextToken:   aws.String("exec-1:athena-token"),
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(api.started).To(BeEmpty())
		Expect(util.SafeString(api.resultInputs[0].QueryExecutionId)).To(Equal("exec-1"))
		Expect(util.SafeString(api.resultInputs[0].NextToken)).To(Equal("athena-token"))
		Expect(out.NextToken).To(BeNil())
		Expect(out.Rows).To(HaveLen(1))
		Expect(util.SafeBool(out.Rows[0].Data[1].NullValue)).To(BeTrue())
	})

	It("should make room for the header when the page size is limited", func() {
		_, err := client.Query(ctx, &timestreamquery.QueryInput{QueryString: aws.String("SELECT 1"), MaxRows: aws.Int32(1)})
		Expect(err).ToNot(HaveOccurred())
		Expect(aws.ToInt32(api.resultInputs[0].MaxResults)).To(Equal(int32(2)))
	})

	It("should keep the first row of DDL results", func() {
		api.statementType = types.StatementTypeDdl
		out, err := client.Query(ctx, &timestreamquery.QueryInput{QueryString: aws.String("SHOW TABLES")})
		Expect(err).ToNot(HaveOccurred())
		Expect(out.Rows).To(HaveLen(2))
	})

	It("should fail when the execution fails", func() {
		api.finalState = types.QueryExecutionStateFailed
		_, err := client.Query(ctx, &timestreamquery.QueryInput{QueryString: aws.String("SELECT x FROM missing")})
		Expect(err).To(MatchError(ContainSubstring("FAILED")))
		Expect(err).To(MatchError(ContainSubstring("table not found")))
	})

	It("should stop polling when the context ends", func() {
		api.finalState = types.QueryExecutionStateRunning
		waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := client.Query(waitCtx, &timestreamquery.QueryInput{QueryString: aws.String("SELECT 1")})
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})

	It("should reject malformed tokens", func() {
		_, err := client.Query(ctx, &timestreamquery.QueryInput{NextToken: aws.String("no-separator")})
		Expect(err).To(HaveOccurred())
	})

	It("should stop the execution on cancel", func() {
		_, err := client.CancelQuery(ctx, &timestreamquery.CancelQueryInput{QueryId: aws.String("exec-1")})
		Expect(err).ToNot(HaveOccurred())
		Expect(api.stopped).To(Equal([]string{"exec-1"}))
	})
})

var _ = Describe("Athena types", func() {
	It("should map type names", func() {
		Expect(scalarType("boolean")).To(Equal(tstypes.ScalarTypeBoolean))
		Expect(scalarType("smallint")).To(Equal(tstypes.ScalarTypeInteger))
		Expect(scalarType("bigint")).To(Equal(tstypes.ScalarTypeBigint))
		Expect(scalarType("float")).To(Equal(tstypes.ScalarTypeDouble))
		Expect(scalarType("timestamp(3)")).To(Equal(tstypes.ScalarTypeTimestamp))
		Expect(scalarType("date")).To(Equal(tstypes.ScalarTypeDate))
		Expect(scalarType("decimal(38,9)")).To(Equal(tstypes.ScalarTypeVarchar))
		Expect(scalarType("array")).To(Equal(tstypes.ScalarTypeVarchar))
		Expect(scalarType("interval day to second")).To(Equal(tstypes.ScalarTypeIntervalDayToSecond))
	})

	It("should turn missing values into NULL", func() {
		rows := convertRows([]types.Row{varchars(aws.String(""), nil)})
		Expect(util.SafeString(rows[0].Data[0].ScalarValue)).To(Equal(""))
		Expect(rows[0].Data[0].NullValue).To(BeNil())
		Expect(util.SafeBool(rows[0].Data[1].NullValue)).To(BeTrue())
	})
})
