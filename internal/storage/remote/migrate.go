package remote

import (
	"context"
	"fmt"

	"github.com/comptaflow/comptaflow/internal/storage"
)

// Migrate provisions the tenant-scoped tables and the server-side aggregation
// functions. Safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	for _, t := range storage.AllTables {
		name, err := t.RemoteName()
		if err != nil {
			return err
		}
		stmts := []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				tenant_id TEXT NOT NULL,
				id TEXT NOT NULL,
				doc JSONB NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (tenant_id, id)
			)`, name),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_updated_at ON %s (tenant_id, updated_at)`, name, name),
		}
		for _, stmt := range stmts {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("provisioning %s: %w", name, err)
			}
		}
	}

	for _, fn := range []string{accountBalanceFn, trialBalanceFn} {
		if _, err := s.db.ExecContext(ctx, fn); err != nil {
			return fmt.Errorf("provisioning aggregation functions: %w", err)
		}
	}
	return nil
}

// The aggregation functions expand the journal entry documents server-side so
// a trial balance never requires shipping the ledger to the client. They must
// produce the same numbers as the client-side balance engine.

const accountBalanceFn = `
CREATE OR REPLACE FUNCTION ledger_account_balance(
	p_tenant TEXT, p_prefixes TEXT[], p_from TIMESTAMPTZ, p_to TIMESTAMPTZ
) RETURNS TABLE (
	account_code TEXT, account_name TEXT,
	debit NUMERIC, credit NUMERIC, solde NUMERIC, line_count BIGINT
) AS $$
	SELECT l->>'accountCode',
	       MAX(l->>'accountName'),
	       COALESCE(SUM((l->>'debit')::numeric), 0),
	       COALESCE(SUM((l->>'credit')::numeric), 0),
	       COALESCE(SUM((l->>'debit')::numeric - (l->>'credit')::numeric), 0),
	       COUNT(*)
	FROM journal_entries e
	CROSS JOIN LATERAL jsonb_array_elements(e.doc->'lines') l
	WHERE e.tenant_id = p_tenant
	  AND (p_from IS NULL OR (e.doc->>'date')::timestamptz >= p_from)
	  AND (p_to IS NULL OR (e.doc->>'date')::timestamptz <= p_to)
	  AND (p_prefixes IS NULL OR cardinality(p_prefixes) = 0 OR EXISTS (
	      SELECT 1 FROM unnest(p_prefixes) p WHERE l->>'accountCode' LIKE p || '%'))
	GROUP BY l->>'accountCode'
	ORDER BY 1
$$ LANGUAGE sql STABLE;
`

const trialBalanceFn = `
CREATE OR REPLACE FUNCTION ledger_trial_balance(
	p_tenant TEXT, p_from TIMESTAMPTZ, p_to TIMESTAMPTZ
) RETURNS TABLE (
	account_code TEXT, account_name TEXT,
	opening_solde NUMERIC, debit NUMERIC, credit NUMERIC, closing_solde NUMERIC
) AS $$
	WITH lines AS (
		SELECT l->>'accountCode' AS code,
		       l->>'accountName' AS name,
		       (e.doc->>'date')::timestamptz AS entry_date,
		       (l->>'debit')::numeric AS debit,
		       (l->>'credit')::numeric AS credit
		FROM journal_entries e
		CROSS JOIN LATERAL jsonb_array_elements(e.doc->'lines') l
		WHERE e.tenant_id = p_tenant
	)
	SELECT code,
	       MAX(name),
	       COALESCE(SUM(CASE WHEN p_from IS NOT NULL AND entry_date < p_from
	                         THEN debit - credit END), 0),
	       COALESCE(SUM(CASE WHEN (p_from IS NULL OR entry_date >= p_from)
	                          AND (p_to IS NULL OR entry_date <= p_to)
	                         THEN debit END), 0),
	       COALESCE(SUM(CASE WHEN (p_from IS NULL OR entry_date >= p_from)
	                          AND (p_to IS NULL OR entry_date <= p_to)
	                         THEN credit END), 0),
	       COALESCE(SUM(CASE WHEN p_from IS NOT NULL AND entry_date < p_from
	                         THEN debit - credit END), 0)
	       + COALESCE(SUM(CASE WHEN (p_from IS NULL OR entry_date >= p_from)
	                            AND (p_to IS NULL OR entry_date <= p_to)
	                           THEN debit - credit END), 0)
	FROM lines
	WHERE (p_to IS NULL OR entry_date <= p_to)
	GROUP BY code
	ORDER BY 1
$$ LANGUAGE sql STABLE;
`
