package errs_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestFromStore_NoDocumentsBecomesNotFound(t *testing.T) {
	err := errs.FromStore(mongo.ErrNoDocuments)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFromStore_UnknownBecomesTransient(t *testing.T) {
	err := errs.FromStore(errors.New("connection reset"))
	if !errors.Is(err, errs.ErrTransient) {
		t.Errorf("expected ErrTransient, got %v", err)
	}
}

func TestFromStore_TaxonomyPassesThrough(t *testing.T) {
	for _, kind := range []error{
		errs.ErrNotFound, errs.ErrUnauthorized, errs.ErrValidation, errs.ErrConflict,
	} {
		wrapped := errs.FromStore(kind)
		if !errors.Is(wrapped, kind) {
			t.Errorf("kind %v did not pass through: %v", kind, wrapped)
		}
		if errors.Is(wrapped, errs.ErrTransient) {
			t.Errorf("kind %v was re-wrapped as transient", kind)
		}
	}
}

func TestFromStore_Nil(t *testing.T) {
	if err := errs.FromStore(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidationf_Kind(t *testing.T) {
	err := errs.Validationf("end date %s not after start date %s", "2024-06-01", "2024-06-10")
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
