package forms_test

import (
	"errors"
	"testing"

	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/forms"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/pointer"
)

func TestRegistry_Validate(t *testing.T) {
	fields := []forms.Field{
		{Name: "name", Kind: forms.Text, Required: true},
		{Name: "replicas", Kind: forms.Number, Min: pointer.Ref(0.0), Max: pointer.Ref(16.0)},
		{Name: "tier", Kind: forms.Select, Options: []string{"standard", "premium"}},
		{Name: "shared", Kind: forms.Toggle},
		{Name: "apiKey", Kind: forms.Secret, Required: true},
	}

	type When struct {
		payload map[string]any
	}
	type Then struct {
		ok bool
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			err := forms.NewRegistry().Validate(fields, when.payload)
			if then.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !then.ok && err == nil {
				t.Error("expected an error")
			}
		}
	}

	t.Run("a complete payload passes", theory(
		When{payload: map[string]any{
			"name": "train-1", "replicas": float64(2), "tier": "standard",
			"shared": true, "apiKey": "s3cret",
		}},
		Then{ok: true},
	))
	t.Run("optional fields may be absent", theory(
		When{payload: map[string]any{"name": "train-1", "apiKey": "s3cret"}},
		Then{ok: true},
	))
	t.Run("a missing required field fails", theory(
		When{payload: map[string]any{"name": "train-1"}},
		Then{ok: false},
	))
	t.Run("an empty required text fails", theory(
		When{payload: map[string]any{"name": "", "apiKey": "s3cret"}},
		Then{ok: false},
	))
	t.Run("a number below its minimum fails", theory(
		When{payload: map[string]any{"name": "n", "apiKey": "k", "replicas": float64(-1)}},
		Then{ok: false},
	))
	t.Run("a number above its maximum fails", theory(
		When{payload: map[string]any{"name": "n", "apiKey": "k", "replicas": float64(17)}},
		Then{ok: false},
	))
	t.Run("a wrong kind fails", theory(
		When{payload: map[string]any{"name": "n", "apiKey": "k", "replicas": "two"}},
		Then{ok: false},
	))
	t.Run("a select value outside its options fails", theory(
		When{payload: map[string]any{"name": "n", "apiKey": "k", "tier": "platinum"}},
		Then{ok: false},
	))
	t.Run("undescribed payload fields are ignored", theory(
		When{payload: map[string]any{"name": "n", "apiKey": "k", "extra": []any{1, 2}}},
		Then{ok: true},
	))
}

func TestRegistry_Register(t *testing.T) {
	t.Run("a kind outside the enum is rejected", func(t *testing.T) {
		err := forms.NewRegistry().Register(forms.Kind("markdown"), func(forms.Field, any) error { return nil })
		if !errors.Is(err, forms.ErrUnknownKind) {
			t.Errorf("want ErrUnknownKind, got %v", err)
		}
	})

	t.Run("a replaced validator is used", func(t *testing.T) {
		r := forms.NewRegistry()
		boom := errors.New("boom")
		if err := r.Register(forms.Text, func(forms.Field, any) error { return boom }); err != nil {
			t.Fatal(err)
		}

		err := r.Validate(
			[]forms.Field{{Name: "name", Kind: forms.Text}},
			map[string]any{"name": "x"},
		)
		if !errors.Is(err, boom) {
			t.Errorf("want the replaced validator's error, got %v", err)
		}
	})
}
