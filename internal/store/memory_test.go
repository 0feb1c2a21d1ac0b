package store

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMemoryStoreQuota(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithQuota(32))

	if err := s.Set(ctx, "users", []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	big := []byte(`"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"`)
	err := s.Apply(ctx, Put("currentUser", []byte(`{}`)), Put("sttConfig", big))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Apply() error = %v, want ErrQuotaExceeded", err)
	}

	if _, err := s.Get(ctx, "currentUser"); !errors.Is(err, ErrNotFound) {
		t.Error("failed batch should not commit any op")
	}
	if s.Keys() != 1 {
		t.Errorf("Keys() = %d, want 1", s.Keys())
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "users", []byte(`[1]`)); err != nil {
		t.Fatal(err)
	}

	got, _ := s.Get(ctx, "users")
	got[1] = '9'

	again, _ := s.Get(ctx, "users")
	if string(again) != `[1]` {
		t.Errorf("stored value mutated through Get() result: %s", again)
	}
}

func TestMemoryStoreJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	op, err := PutJSON("sttConfig", map[string]string{"provider": "openai"})
	if err != nil {
		t.Fatalf("PutJSON() error = %v", err)
	}
	if err := s.Apply(ctx, op); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	var got map[string]string
	if err := GetJSON(ctx, s, "sttConfig", &got); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got["provider"] != "openai" {
		t.Errorf("provider = %q, want openai", got["provider"])
	}

	if err := GetJSON(ctx, s, "users", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJSON() missing key error = %v, want ErrNotFound", err)
	}
}

// Property: the last write to a key wins and deletes are idempotent
func TestMemoryStoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("last Put wins", prop.ForAll(
		func(values []int) bool {
			ctx := context.Background()
			s := NewMemoryStore()
			for _, v := range values {
				op, _ := PutJSON("k", v)
				if err := s.Apply(ctx, op); err != nil {
					return false
				}
			}
			var got int
			err := GetJSON(ctx, s, "k", &got)
			if len(values) == 0 {
				return errors.Is(err, ErrNotFound)
			}
			return err == nil && got == values[len(values)-1]
		},
		gen.SliceOf(gen.Int()),
	))

	properties.Property("Delete is idempotent", prop.ForAll(
		func(n int) bool {
			ctx := context.Background()
			s := NewMemoryStore()
			_ = s.Set(ctx, "k", []byte(`1`))
			for i := 0; i < n; i++ {
				if err := s.Delete(ctx, "k"); err != nil {
					return false
				}
			}
			_, err := s.Get(ctx, "k")
			return errors.Is(err, ErrNotFound)
		},
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
