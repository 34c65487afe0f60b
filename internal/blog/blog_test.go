package blog

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/auth"
	"github.com/elskow/portfolio-cms/internal/database/dbtest"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *gorm.DB, *testClock) {
	t.Helper()
	db := dbtest.New(t, &Post{}, &auth.Account{})
	clock := &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(NewRepository(db), zap.NewNop())
	svc.now = clock.Now
	return svc, db, clock
}

func strPtr(s string) *string { return &s }

func statusPtr(s Status) *Status { return &s }

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func validInput(title string) PostInput {
	return PostInput{
		Title:    strPtr(title),
		Excerpt:  strPtr("A short excerpt"),
		Content:  strPtr(words(150)),
		Category: strPtr("Tutorial"),
	}
}
