package roster

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMember() Member {
	return Member{
		Rank:      "SGT",
		FirstName: "DENNY",
		LastName:  "LI",
		MI:        "K",
		EDIPI:     "1234567890",
		DOR:       20230115,
		PMOS:      "0311",
		BilMOS:    "0369",
	}
}

func TestMember_Normalize(t *testing.T) {
	m := Member{Rank: " sgt ", FirstName: "denny", LastName: " li", MI: "k ", EDIPI: " 1234567890 ", PMOS: "0311 ", BilMOS: " 0369"}.Normalize()
	assert.Equal(t, "SGT", m.Rank)
	assert.Equal(t, "DENNY", m.FirstName)
	assert.Equal(t, "LI", m.LastName)
	assert.Equal(t, "K", m.MI)
	assert.Equal(t, "1234567890", m.EDIPI)
	assert.Equal(t, "0311", m.PMOS)
	assert.Equal(t, "0369", m.BilMOS)
}

func TestMember_Validate(t *testing.T) {
	require.NoError(t, validMember().Validate())

	noMI := validMember()
	noMI.MI = ""
	assert.NoError(t, noMI.Validate())

	tests := []struct {
		name   string
		mutate func(*Member)
		msg    string
	}{
		{"rank", func(m *Member) { m.Rank = "" }, "rank is required"},
		{"first name", func(m *Member) { m.FirstName = "" }, "first name is required"},
		{"last name", func(m *Member) { m.LastName = "" }, "last name is required"},
		{"short edipi", func(m *Member) { m.EDIPI = "123" }, "edipi"},
		{"alpha edipi", func(m *Member) { m.EDIPI = "12345678ab" }, "edipi"},
		{"dor month", func(m *Member) { m.DOR = 20231301 }, "dor"},
		{"dor zero", func(m *Member) { m.DOR = 0 }, "dor"},
		{"pmos", func(m *Member) { m.PMOS = "311" }, "pmos"},
		{"bilmos", func(m *Member) { m.BilMOS = "03X9" }, "bilmos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMember()
			tt.mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMOS_Validate(t *testing.T) {
	assert.NoError(t, MOS{BilMOS: "0369", Description: "Infantry unit leader"}.Validate())
	assert.True(t, errors.Is(MOS{BilMOS: "369", Description: "x"}.Validate(), ErrInvalid))
	assert.True(t, errors.Is(MOS{BilMOS: "0369"}.Normalize().Validate(), ErrInvalid))
	assert.True(t, errors.Is(MOS{BilMOS: "0369", Description: "  "}.Normalize().Validate(), ErrInvalid))
}

func TestParseDOR(t *testing.T) {
	d, err := ParseDOR(20240229)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDOR(20230229)
	assert.Error(t, err)
	_, err = ParseDOR(123)
	assert.Error(t, err)
}
