package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/breeew/peer-api/pkg/sqlstore"
	"github.com/breeew/peer-api/pkg/types"
)

// batchSize keeps multi-row inserts far below the 65535 bind parameter limit.
const batchSize = 500

type SqlProviderAchieve interface {
	GetMaster(ctx context.Context) sqlstore.Executor
	GetReplica(ctx context.Context) sqlstore.Executor
}

type CommonFields struct {
	provider   SqlProviderAchieve
	table      types.TableName
	allColumns []string
}

func (c *CommonFields) SetProvider(p SqlProviderAchieve) {
	c.provider = p
}

func (c *CommonFields) SetTable(t types.TableName) {
	c.table = t
}

func (c *CommonFields) SetAllColumns(cols ...string) {
	c.allColumns = cols
}

func (c *CommonFields) GetTable() string {
	return c.table.Name()
}

func (c *CommonFields) GetAllColumns() []string {
	return c.allColumns
}

func (c *CommonFields) GetMaster(ctx context.Context) sqlstore.Executor {
	return c.provider.GetMaster(ctx)
}

func (c *CommonFields) GetReplica(ctx context.Context) sqlstore.Executor {
	return c.provider.GetReplica(ctx)
}

func ErrorSqlBuild(err error) error {
	return fmt.Errorf("failed to build sql: %w", err)
}

// IsUniqueViolation reports a postgres unique_violation (23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func offset(page, pageSize uint64) uint64 {
	if page == 0 {
		page = 1
	}
	return (page - 1) * pageSize
}
