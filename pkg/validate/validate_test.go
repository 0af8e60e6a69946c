package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/furnistor/pkg/validate"
)

type reviewInput struct {
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"nullable,max=2000"`
}

type registerInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Avatar   string `json:"avatar"   validate:"nullable,url"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "Jane Austen",
		Email:    "jane@example.com",
		Password: "secret123",
		Avatar:   "", // nullable — allowed to be empty
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestRatingBounds(t *testing.T) {
	if errs := validate.Struct(reviewInput{Rating: 0}); !validate.HasErrors(errs) {
		t.Error("expected rating 0 to fail")
	}
	if errs := validate.Struct(reviewInput{Rating: 6}); !validate.HasErrors(errs) {
		t.Error("expected rating 6 to fail")
	}
	if errs := validate.Struct(reviewInput{Rating: 4}); validate.HasErrors(errs) {
		t.Errorf("expected rating 4 to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=Pending,Shipped,Delivered,Cancelled"`
	}
	if errs := validate.Struct(in{Status: "Refunded"}); !validate.HasErrors(errs) {
		t.Error("expected invalid status to fail")
	}
	if errs := validate.Struct(in{Status: "Shipped"}); validate.HasErrors(errs) {
		t.Errorf("expected Shipped to pass: %v", errs)
	}
}

func TestInRuleFollowedByAnother(t *testing.T) {
	type in struct {
		Category string `json:"category" validate:"required,in=Sofas,Tables,Lighting,max=20"`
	}
	if errs := validate.Struct(in{Category: "Tables"}); validate.HasErrors(errs) {
		t.Errorf("expected Tables to pass: %v", errs)
	}
	if errs := validate.Struct(in{Category: "max"}); !validate.HasErrors(errs) {
		t.Error("expected rule keyword not to leak into the allowed set")
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Website string `json:"website" validate:"nullable,url"`
	}
	// Empty string — nullable, should pass even though it's not a URL
	if errs := validate.Struct(in{Website: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	// Non-empty but invalid URL — should fail
	if errs := validate.Struct(in{Website: "not-a-url"}); !validate.HasErrors(errs) {
		t.Error("expected invalid URL to fail")
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Price float64 `json:"price" validate:"required,between=1,100000"`
	}
	if errs := validate.Struct(in{Price: 250000}); !validate.HasErrors(errs) {
		t.Error("expected price > 100000 to fail")
	}
	if errs := validate.Struct(in{Price: 749.99}); validate.HasErrors(errs) {
		t.Errorf("expected price 749.99 to pass: %v", errs)
	}
}

func TestStringLengthRules(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,min=2,max=10"`
	}
	if errs := validate.Struct(in{Name: "a"}); !validate.HasErrors(errs) {
		t.Error("expected 1-char name to fail min=2")
	}
	if errs := validate.Struct(in{Name: "abcdefghijk"}); !validate.HasErrors(errs) {
		t.Error("expected 11-char name to fail max=10")
	}
	if errs := validate.Struct(in{Name: "Oakwood"}); validate.HasErrors(errs) {
		t.Errorf("expected Oakwood to pass: %v", errs)
	}
}

func TestPipeSeparatedRules(t *testing.T) {
	type in struct {
		Rating int    `json:"rating" validate:"required|gte=1|lte=5"`
		Email  string `json:"email"  validate:"required|email"`
	}

	errs := validate.Struct(in{Rating: 99, Email: "not-an-email"})
	if _, ok := errs["rating"]; !ok {
		t.Error("expected rating 99 to fail a pipe-separated rule set")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected bad email to fail a pipe-separated rule set")
	}

	errs = validate.Struct(in{})
	if _, ok := errs["rating"]; !ok {
		t.Error("expected pipe-separated required to fire on a zero value")
	}

	errs = validate.Struct(in{Rating: 4, Email: "jane@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid input to pass, got: %v", errs)
	}
}

func TestPipeWithMultiValueParam(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required|in=Pending,Shipped,Delivered"`
	}
	if errs := validate.Struct(in{Status: "Refunded"}); !validate.HasErrors(errs) {
		t.Error("expected invalid status to fail")
	}
	if errs := validate.Struct(in{Status: "Shipped"}); validate.HasErrors(errs) {
		t.Errorf("expected Shipped to pass: %v", errs)
	}
}
