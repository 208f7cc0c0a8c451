package sqlstore

import (
	"context"
	"embed"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/breeew/peer-api/internal/store"
	"github.com/breeew/peer-api/pkg/register"
	"github.com/breeew/peer-api/pkg/sqlstore"
)

func init() {
	sq.StatementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

//go:embed schema/*.sql
var CreateTableFiles embed.FS

var provider = &Provider{
	stores: &Stores{},
}

var _ store.Provider = (*Provider)(nil)

func GetProvider() *Provider {
	return provider
}

type Provider struct {
	*sqlstore.SqlProvider
	stores *Stores
}

type Stores struct {
	store.UserStore
	store.WorkspaceStore
	store.GroupStore
	store.MembershipStore
	store.AssignmentStore
	store.QuestionStore
	store.ReviewStore
	store.RatingStore
	store.AnalyticsStore
	store.JournalAssignmentStore
	store.JournalEntryStore
}

type RegisterKey struct{}

func MustSetup(m sqlstore.ConnectConfig, s ...sqlstore.ConnectConfig) func() *Provider {
	provider.SqlProvider = sqlstore.MustSetupProvider(m, s...)

	for _, f := range register.ResolveFuncHandlers[*Provider](RegisterKey{}) {
		f(provider)
	}

	return func() *Provider {
		return provider
	}
}

// Install applies the embedded schema files in order. Statements are
// idempotent so running it twice is harmless.
func (p *Provider) Install(ctx context.Context) error {
	for _, tableFile := range []string{
		"users.sql",
		"workspaces.sql",
		"assignments.sql",
		"reviews.sql",
		"analytics.sql",
		"journals.sql",
	} {
		raw, err := CreateTableFiles.ReadFile("schema/" + tableFile)
		if err != nil {
			return err
		}

		if _, err = p.GetMaster(ctx).ExecContext(ctx, string(raw)); err != nil {
			return fmt.Errorf("install %s: %w", tableFile, err)
		}
	}
	return nil
}

func (p *Provider) UserStore() store.UserStore {
	return p.stores.UserStore
}

func (p *Provider) WorkspaceStore() store.WorkspaceStore {
	return p.stores.WorkspaceStore
}

func (p *Provider) GroupStore() store.GroupStore {
	return p.stores.GroupStore
}

func (p *Provider) MembershipStore() store.MembershipStore {
	return p.stores.MembershipStore
}

func (p *Provider) AssignmentStore() store.AssignmentStore {
	return p.stores.AssignmentStore
}

func (p *Provider) QuestionStore() store.QuestionStore {
	return p.stores.QuestionStore
}

func (p *Provider) ReviewStore() store.ReviewStore {
	return p.stores.ReviewStore
}

func (p *Provider) RatingStore() store.RatingStore {
	return p.stores.RatingStore
}

func (p *Provider) AnalyticsStore() store.AnalyticsStore {
	return p.stores.AnalyticsStore
}

func (p *Provider) JournalAssignmentStore() store.JournalAssignmentStore {
	return p.stores.JournalAssignmentStore
}

func (p *Provider) JournalEntryStore() store.JournalEntryStore {
	return p.stores.JournalEntryStore
}
