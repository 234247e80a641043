package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// GenerateNumber produces a fresh invoice number: "INV", the current
// day of month without a leading zero, and a 4-digit random suffix,
// e.g. INV147392. The format itself guarantees nothing; candidates are
// probed against the checker until one comes back unique. The loop has
// no attempt cap or backoff; callers bound it through ctx.
func GenerateNumber(ctx context.Context, checker NumberChecker) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("INV%d%d", time.Now().Day(), 1000+rand.Intn(9000))
		unique, err := checker.CheckNumberUnique(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check invoice number: %w", err)
		}
		if unique {
			return candidate, nil
		}
	}
}
