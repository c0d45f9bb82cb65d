package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		p := &Product{Id: 1, Name: "Alpha Card"}
		if err := ValidateProduct(p); err != nil {
			t.Errorf("ValidateProduct() = %v, want nil", err)
		}
	})

	t.Run("nil product", func(t *testing.T) {
		if err := ValidateProduct(nil); !errors.Is(err, ErrInvalidProduct) {
			t.Errorf("ValidateProduct(nil) = %v, want ErrInvalidProduct", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		err := ValidateProduct(&Product{Id: 1})
		if !errors.Is(err, ErrEmptyProductName) {
			t.Errorf("ValidateProduct() = %v, want ErrEmptyProductName", err)
		}
	})
}

func TestValidateSnapshot(t *testing.T) {
	valid := &Snapshot{
		Products: []Product{
			{Id: 1, Name: "Alpha Card"},
			{Id: 2, Name: "Beta Card"},
		},
		Vectors: []ProductVector{
			{Id: 1, Vector: []float32{0.5}},
		},
		BuiltAt: time.Now().UTC(),
	}
	if err := ValidateSnapshot(valid); err != nil {
		t.Errorf("ValidateSnapshot() = %v, want nil", err)
	}

	t.Run("orphan vector", func(t *testing.T) {
		snap := &Snapshot{
			Products: []Product{{Id: 1, Name: "Alpha Card"}},
			Vectors:  []ProductVector{{Id: 9, Vector: []float32{0.5}}},
		}
		if err := ValidateSnapshot(snap); !errors.Is(err, ErrOrphanVector) {
			t.Errorf("ValidateSnapshot() = %v, want ErrOrphanVector", err)
		}
	})

	t.Run("more vectors than products", func(t *testing.T) {
		snap := &Snapshot{
			Products: []Product{{Id: 1, Name: "Alpha Card"}},
			Vectors: []ProductVector{
				{Id: 1, Vector: []float32{0.5}},
				{Id: 1, Vector: []float32{0.5}},
			},
		}
		if err := ValidateSnapshot(snap); !errors.Is(err, ErrOrphanVector) {
			t.Errorf("ValidateSnapshot() = %v, want ErrOrphanVector", err)
		}
	})

	t.Run("empty vector", func(t *testing.T) {
		snap := &Snapshot{
			Products: []Product{{Id: 1, Name: "Alpha Card"}},
			Vectors:  []ProductVector{{Id: 1}},
		}
		if err := ValidateSnapshot(snap); !errors.Is(err, ErrEmptyVector) {
			t.Errorf("ValidateSnapshot() = %v, want ErrEmptyVector", err)
		}
	})
}
