package utils_test

import (
	"testing"

	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

func TestContainsFold(t *testing.T) {
	if !utils.ContainsFold([]string{"Content-Type"}, "content-type") {
		t.Fatalf("expected fold match")
	}
	if utils.ContainsFold(nil, "x") {
		t.Fatalf("expected no match on nil slice")
	}
}
