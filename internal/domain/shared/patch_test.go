package shared

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testColumns = map[string]Column{
	"status":     {Name: "status", Kind: KindString, Enum: []string{"pending", "approved"}},
	"amount":     {Name: "amount", Kind: KindDecimal, Cast: "::text::numeric"},
	"notes":      {Name: "notes", Kind: KindString, Nullable: true},
	"claimDate":  {Name: "claim_date", Kind: KindTime},
	"employeeId": {Name: "employee_id", Kind: KindInt},
}

func body(t *testing.T, raw string) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestDecodePatchMapsFieldsToColumns(t *testing.T) {
	patch, err := DecodePatch(body(t, `{
		"status": "approved",
		"amount": "45.5",
		"notes": null,
		"claimDate": "2024-06-10",
		"employeeId": 7,
		"id": 99,
		"createdAt": "2020-01-01",
		"version": 3
	}`), testColumns)
	require.NoError(t, err)

	want := map[string]any{
		"status":      "approved",
		"amount":      "45.5",
		"notes":       nil,
		"claim_date":  time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		"employee_id": int64(7),
	}
	if diff := cmp.Diff(want, patch.Set); diff != "" {
		t.Fatalf("patch mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, patch.Version)
	require.Equal(t, 3, *patch.Version)
}

func TestDecodePatchRejectsUnknownField(t *testing.T) {
	_, err := DecodePatch(body(t, `{"colour": "red"}`), testColumns)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownField))

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	require.Equal(t, "colour", fieldErr.Field)
}

func TestDecodePatchRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"enum":         `{"status": "paid-ish"}`,
		"decimal":      `{"amount": "abc"}`,
		"null":         `{"status": null}`,
		"int":          `{"employeeId": "seven"}`,
		"date":         `{"claimDate": "yesterday"}`,
		"zero version": `{"version": 0}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePatch(body(t, raw), testColumns)
			require.True(t, errors.Is(err, ErrInvalidField), "got %v", err)
		})
	}
}

func TestBuildUpdateVersioned(t *testing.T) {
	version := 2
	patch := Patch{
		Set:     map[string]any{"status": "approved", "approved_at": Now, "amount": "10"},
		Version: &version,
	}
	columns := map[string]Column{"amount": {Name: "amount", Cast: "::text::numeric"}}

	query, args := BuildUpdate("claims", 5, patch, columns, true)
	require.Equal(t,
		"UPDATE claims SET amount = $1::text::numeric, approved_at = now(), status = $2, updated_at = now(), version = version + 1 WHERE id = $3 AND version = $4",
		query)
	require.Equal(t, []any{"10", "approved", int64(5), 2}, args)
}

func TestBuildUpdateWithoutVersion(t *testing.T) {
	query, args := BuildUpdate("employees", 1, Patch{Set: map[string]any{}}, nil, false)
	require.Equal(t, "UPDATE employees SET updated_at = now() WHERE id = $1", query)
	require.Equal(t, []any{int64(1)}, args)
}

func TestWhereBuildsPositionalClauses(t *testing.T) {
	var where Where
	require.Equal(t, "", where.String())
	where.Add("c.status", "pending")
	where.Add("c.employee_id", int64(3))
	require.Equal(t, " WHERE c.status = $1 AND c.employee_id = $2", where.String())
	require.Equal(t, " LIMIT $3 OFFSET $4", where.Page(50, 0))
	require.Equal(t, []any{"pending", int64(3), 50, 0}, where.Args)
}

func TestNotFoundWrapsSentinel(t *testing.T) {
	err := NotFound("claim")
	require.True(t, errors.Is(err, ErrNotFound))
	require.Contains(t, err.Error(), "claim")
}
