package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prefix   string
		width    int
		existing []string
		want     string
	}{
		{"empty table", "RES", 4, nil, "RES-0001"},
		{"sequential", "RES", 4, []string{"RES-0001", "RES-0002"}, "RES-0003"},
		{"gaps from deletion", "RES", 4, []string{"RES-0001", "RES-0007"}, "RES-0008"},
		{"unsorted", "RES", 4, []string{"RES-0009", "RES-0002", "RES-0005"}, "RES-0010"},
		{"width three", "ZC", 3, []string{"ZC-001", "ZC-002"}, "ZC-003"},
		{"overflow pad width", "VET", 3, []string{"VET-999"}, "VET-1000"},
		{"all malformed", "ACT", 3, []string{"garbage", "ACT_001", "ACT-"}, "ACT-001"},
		{"mixed malformed", "RES", 4, []string{"junk", "RES-0004", "RES-x"}, "RES-0005"},
		{"foreign prefix ignored", "RES", 4, []string{"ZC-009"}, "RES-0001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Next(tt.prefix, tt.width, tt.existing))
		})
	}
}

func TestNextIsStrictlyIncreasing(t *testing.T) {
	t.Parallel()

	var existing []string
	prev := ""
	for range 25 {
		id := Next("RES", 4, existing)
		assert.Greater(t, id, prev)
		existing = append(existing, id)
		prev = id
	}
	assert.Equal(t, "RES-0025", existing[len(existing)-1])
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RES-0001", Format("RES", 4, 1))
	assert.Equal(t, "ZC-042", Format("ZC", 3, 42))
	assert.Equal(t, "ENC-12345", Format("ENC", 4, 12345))
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Valid("RES-0001", "RES"))
	assert.True(t, Valid("RES-1", "RES"))
	assert.False(t, Valid("RES-", "RES"))
	assert.False(t, Valid("RES-abc", "RES"))
	assert.False(t, Valid("ZC-001", "RES"))
	assert.False(t, Valid("RES--1", "RES"))
}
