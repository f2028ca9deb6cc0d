package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestJSON_Registered(t *testing.T) {
	c := encoding.GetCodec(Name)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestJSON_EmptyPayload(t *testing.T) {
	var v struct{ A int }
	require.NoError(t, JSON{}.Unmarshal(nil, &v))
	assert.Zero(t, v.A)
}

func TestJSON_Errors(t *testing.T) {
	_, err := JSON{}.Marshal(make(chan int))
	assert.Error(t, err)

	var v struct{ A int }
	assert.Error(t, JSON{}.Unmarshal([]byte("{"), &v))
}
