package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskRef(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want TaskRef
		rest []string
	}{
		{"slash form", []string{"4/12"}, TaskRef{ProjectID: 4, TaskID: 12}, []string{}},
		{"two args", []string{"4", "12"}, TaskRef{ProjectID: 4, TaskID: 12}, []string{}},
		{"slash form keeps rest", []string{"4/12", "extra"}, TaskRef{ProjectID: 4, TaskID: 12}, []string{"extra"}},
		{"two args keep rest", []string{"4", "12", "extra"}, TaskRef{ProjectID: 4, TaskID: 12}, []string{"extra"}},
		{"leading zeros", []string{"007/010"}, TaskRef{ProjectID: 7, TaskID: 10}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, rest, err := ParseTaskRef(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestParseTaskRef_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"empty", nil, "task reference required"},
		{"project only", []string{"4"}, "task reference required"},
		{"letters", []string{"a1"}, "invalid task reference: a1"},
		{"slash missing task", []string{"4/"}, "invalid task reference: 4/"},
		{"slash missing project", []string{"/12"}, "invalid task reference: /12"},
		{"two slashes", []string{"4/1/2"}, "invalid task reference: 4/1/2"},
		{"negative", []string{"-4", "12"}, "invalid task reference: -4"},
		{"second not numeric", []string{"4", "x"}, "invalid task reference: 4 x"},
		{"unicode digits", []string{"٤/١٢"}, "invalid task reference: ٤/١٢"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseTaskRef(tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParseTaskRef_RequiredSentinel(t *testing.T) {
	_, _, err := ParseTaskRef([]string{"4"})
	assert.ErrorIs(t, err, ErrTaskRefRequired)
}

func TestParseProjectID(t *testing.T) {
	id, rest, err := ParseProjectID([]string{"12", "Ship", "it"})
	require.NoError(t, err)
	assert.Equal(t, 12, id)
	assert.Equal(t, []string{"Ship", "it"}, rest)

	_, _, err = ParseProjectID(nil)
	assert.ErrorIs(t, err, ErrProjectRequired)

	_, _, err = ParseProjectID([]string{"twelve"})
	assert.EqualError(t, err, "invalid project id: twelve")
}

func TestTaskRefString(t *testing.T) {
	assert.Equal(t, "4/12", TaskRef{ProjectID: 4, TaskID: 12}.String())
}

func TestIsAllDigits(t *testing.T) {
	assert.True(t, isAllDigits("0123"))
	assert.False(t, isAllDigits(""))
	assert.False(t, isAllDigits("12a"))
	assert.False(t, isAllDigits("+1"))
	assert.False(t, isAllDigits("١٢"))
}

func TestAtoiOverflow(t *testing.T) {
	assert.Equal(t, 0, atoi("99999999999999999999999"))
}
