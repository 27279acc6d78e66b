package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/timestreamquery"
	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/meta"
	"github.com/kent-id/tsodbc/util"
)

// Dialect holds the statements catalog queries send to the backend.
type Dialect struct {
	ShowDatabases string
	ShowTables    func(database string) string
	DescribeTable func(database, table string) string
}

// TimestreamDialect reads the catalog with SHOW and DESCRIBE.
var TimestreamDialect = Dialect{
	ShowDatabases: "SHOW DATABASES",
	ShowTables: func(database string) string {
		return "SHOW TABLES FROM " + util.QuoteIdentifier(database)
	},
	DescribeTable: func(database, table string) string {
		return "DESCRIBE " + util.QuoteIdentifier(database) + "." + util.QuoteIdentifier(table)
	},
}

// AthenaDialect reads columns from information_schema, whose rows have the
// same name, type, remarks shape as Timestream's DESCRIBE output.
var AthenaDialect = Dialect{
	ShowDatabases: "SHOW DATABASES",
	ShowTables: func(database string) string {
		return "SHOW TABLES IN `" + strings.ReplaceAll(database, "`", "``") + "`"
	},
	DescribeTable: func(database, table string) string {
		return fmt.Sprintf("SELECT column_name, data_type, comment FROM information_schema.columns "+
			"WHERE table_schema = %s AND table_name = %s ORDER BY ordinal_position",
			quoteLiteral(database), quoteLiteral(table))
	},
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// catalogReader runs catalog statements to completion.
type catalogReader struct {
	logger        *tsodbc.Logger
	client        Client
	dialect       Dialect
	maxEmptyPages int
}

func newCatalogReader(logger *tsodbc.Logger, client Client, dialect Dialect, maxEmptyPages int) *catalogReader {
	if dialect.ShowDatabases == "" {
		dialect = TimestreamDialect
	}
	if maxEmptyPages <= 0 {
		maxEmptyPages = tsodbc.DefaultMaxEmptyPages
	}
	return &catalogReader{logger: logger, client: client, dialect: dialect, maxEmptyPages: maxEmptyPages}
}

// fetchAll pages through the whole result of sql.
func (r *catalogReader) fetchAll(ctx context.Context, sql string) ([]tstypes.Row, error) {
	input := timestreamquery.QueryInput{QueryString: aws.String(sql)}
	var rows []tstypes.Row
	emptyPages := 0
	for page := 1; ; page++ {
		out, err := r.client.Query(ctx, &input)
		if err != nil {
			return nil, remoteError(err)
		}
		rows = append(rows, out.Rows...)
		if out.NextToken == nil || *out.NextToken == "" {
			break
		}
		if len(out.Rows) == 0 {
			emptyPages++
			if emptyPages > r.maxEmptyPages {
				return nil, errTooManyEmptyPages(r.maxEmptyPages)
			}
		} else {
			emptyPages = 0
		}
		input.NextToken = out.NextToken
		r.logger.LogDebugf("fetching next page %d of catalog statement: %s", page+1, sql)
	}
	return rows, nil
}

// databases lists the databases matching pattern.
func (r *catalogReader) databases(ctx context.Context, pattern SearchPattern) ([]string, error) {
	rows, err := r.fetchAll(ctx, r.dialect.ShowDatabases)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, row := range rows {
		if len(row.Data) == 0 {
			continue
		}
		name := util.SafeString(row.Data[0].ScalarValue)
		if name != "" && pattern.Match(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// tables lists the tables of the databases matching the patterns.
func (r *catalogReader) tables(ctx context.Context, schemaPattern, tablePattern SearchPattern) ([]meta.TableMeta, error) {
	dbs, err := r.databases(ctx, schemaPattern)
	if err != nil {
		return nil, err
	}
	var out []meta.TableMeta
	for _, db := range dbs {
		rows, err := r.fetchAll(ctx, r.dialect.ShowTables(db))
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			var t meta.TableMeta
			if err := t.Read(db, row); err != nil {
				r.logger.LogWarnf("skipping table row: %v", err)
				continue
			}
			if tablePattern.Match(t.TableName) {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

// columns lists the columns of one table matching pattern.
func (r *catalogReader) columns(ctx context.Context, table meta.TableMeta, pattern SearchPattern) ([]meta.ColumnMeta, error) {
	rows, err := r.fetchAll(ctx, r.dialect.DescribeTable(table.SchemaName, table.TableName))
	if err != nil {
		return nil, err
	}
	var out []meta.ColumnMeta
	for i, row := range rows {
		var c meta.ColumnMeta
		if err := c.Read(table.SchemaName, table.TableName, row, int32(i+1)); err != nil {
			r.logger.LogWarnf("skipping column row of %s.%s: %v", table.SchemaName, table.TableName, err)
			continue
		}
		if pattern.Match(c.ColumnName) {
			out = append(out, c)
		}
	}
	return out, nil
}
