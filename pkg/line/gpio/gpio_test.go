package gpio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	conf := NewConfig()
	conf.LaserPin = 5
	require.NotEqual(t, 5, Default().LaserPin)
}
