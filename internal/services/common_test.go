package services

import (
	"testing"

	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
)

func assertKind(tb testing.TB, err error, want apperr.Kind) {
	tb.Helper()
	if got := apperr.KindOf(err); got != want {
		tb.Fatalf("error kind = %q, want %q (err: %v)", got, want, err)
	}
}
