package managers

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/bawdo/quarry/conditions"
	"github.com/bawdo/quarry/internal/testutil"
	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/visitors"
)

func TestNewDeleteManagerSetsFrom(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewDeleteManager(users)
	if m.Statement.From != users {
		t.Error("expected From to be users")
	}
	if len(m.Statement.Wheres) != 0 {
		t.Error("expected empty wheres")
	}
}

func TestDeleteBasic(t *testing.T) {
	t.Parallel()
	m := NewDelete(pg()).From("sessions").Where(conditions.Cond{"expired": true})
	assertRendered(t, m, `DELETE FROM "sessions" WHERE "expired" = :c0`)
}

func TestDeleteWithoutConditions(t *testing.T) {
	t.Parallel()
	assertRendered(t, NewDelete(pg()).From("sessions"), `DELETE FROM "sessions"`)
}

func TestDeleteStripsTargetQualifiers(t *testing.T) {
	t.Parallel()
	m := NewDelete(pg()).
		From(map[string]string{"s": "sessions"}).
		Where(conditions.Cond{"s.user_id": 3, "sessions.expired": true})
	assertRendered(t, m, `DELETE FROM "sessions" WHERE ("user_id" = :c0 AND "expired" = :c1)`)
}

func TestDeleteListHelpers(t *testing.T) {
	t.Parallel()
	m := NewDelete(pg()).From("sessions").
		WhereNotNull("revoked_at").
		WhereNotInList("id", []int{1, 2}, false)
	assertRendered(t, m, `DELETE FROM "sessions" WHERE ("revoked_at" IS NOT NULL AND "id" NOT IN (:c0, :c1))`)
}

func TestDeleteJoinsOnMySQL(t *testing.T) {
	t.Parallel()
	m := NewDelete(RenderOnly(visitors.MySQL)).
		From(map[string]string{"a": "articles"}).
		InnerJoin(map[string]string{"u": "users"}, "u.id = a.author_id").
		Where(conditions.Cond{"u.banned": true})
	assertRendered(t, m, "DELETE `a` FROM `articles` AS `a` INNER JOIN `users` AS `u` ON u.id = a.author_id WHERE `u`.`banned` = :c0")
}

func TestDeleteJoinsWithAliasFailElsewhere(t *testing.T) {
	t.Parallel()
	m := NewDelete(RenderOnly(visitors.SQLite)).
		From(map[string]string{"a": "articles"}).
		InnerJoin("users", "users.id = a.author_id")
	_, err := m.SQL()
	if !errors.Is(err, ErrAliasStripping) {
		t.Errorf("expected ErrAliasStripping, got %v", err)
	}
}

func TestDeleteKeepsAliasUsedByRawSQL(t *testing.T) {
	t.Parallel()
	m := NewDelete(pg()).
		From(map[string]string{"s": "sessions"}).
		Where(`NOT EXISTS (SELECT 1 FROM users u WHERE u.id = "s".user_id)`)
	assertRendered(t, m, `DELETE FROM "sessions" AS "s" WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.id = "s".user_id)`)

	_, err := NewDelete(RenderOnly(visitors.SQLServer)).
		From(map[string]string{"s": "sessions"}).
		Where("s.expires_at < now()").
		SQL()
	if !errors.Is(err, ErrAliasStripping) {
		t.Errorf("expected ErrAliasStripping, got %v", err)
	}
}

func TestMentionsQualifier(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want bool
	}{
		{"a.id = 1", true},
		{"x = a.id", true},
		{`"a".id = 1`, true},
		{"`a`.id = 1", true},
		{"[a].id = 1", true},
		{"data.id = 1", false},
		{"schema.a.id = 1", false},
		{"id = 1", false},
	}
	for _, tt := range tests {
		if got := mentionsQualifier(tt.raw, "a"); got != tt.want {
			t.Errorf("mentionsQualifier(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestDeleteOrderLimitMySQL(t *testing.T) {
	t.Parallel()
	m := NewDelete(RenderOnly(visitors.MySQL)).
		From("logs").
		Order(map[string]string{"created_at": "desc"}).
		Limit(100)
	assertRendered(t, m, "DELETE FROM `logs` ORDER BY `created_at` DESC LIMIT 100")
}

func TestDeleteReturningSQLServer(t *testing.T) {
	t.Parallel()
	m := NewDelete(RenderOnly(visitors.SQLServer)).
		From("queue").
		Where(conditions.Cond{"id": 9}).
		Returning("id")
	assertRendered(t, m, `DELETE FROM [queue] OUTPUT DELETED.[id] WHERE [id] = :c0`)
}

func TestDeleteInvalidLimit(t *testing.T) {
	t.Parallel()
	m := NewDelete(pg()).From("logs").Limit(-5)
	if !errors.Is(m.Err(), ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", m.Err())
	}
}

func TestDeleteCloneIsIndependent(t *testing.T) {
	t.Parallel()
	m := NewDelete(pg()).From("logs")
	c := m.Clone().Where("1=1")
	assertRendered(t, m, `DELETE FROM "logs"`)
	assertRendered(t, c, `DELETE FROM "logs" WHERE 1=1`)
}

func TestDeleteExecuteReportsRowCount(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM "logs" WHERE 1=1`).WillReturnResult(sqlmock.NewResult(0, 4))

	stmt, err := NewDelete(mockExec{db}).From("logs").Where("1=1").Execute(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stmt.RowCount(), int64(4))
	testutil.AssertNoError(t, mock.ExpectationsWereMet())
}
