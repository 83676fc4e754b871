package invoker

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/scriptgate/extension"
	"github.com/viant/scriptgate/model/types"
)

type echoInput struct {
	Message string `json:"message"`
}

type echoOutput struct {
	Message string `json:"message"`
}

type echoService struct{}

func (s *echoService) Name() string { return "echo" }

func (s *echoService) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:   "say",
			Input:  reflect.TypeOf(&echoInput{}),
			Output: reflect.TypeOf(&echoOutput{}),
		},
	}
}

func (s *echoService) Method(name string) (types.Executable, error) {
	if strings.ToLower(name) != "say" {
		return nil, types.NewMethodNotFoundError(name)
	}
	return func(_ context.Context, in, out interface{}) error {
		input, ok := in.(*echoInput)
		if !ok {
			return types.NewInvalidInputError(in)
		}
		output, ok := out.(*echoOutput)
		if !ok {
			return types.NewInvalidOutputError(out)
		}
		output.Message = input.Message
		return nil
	}, nil
}

func TestService_Invoke(t *testing.T) {
	actions := extension.NewActions()
	actions.Register(&echoService{})
	service := New(actions)
	ctx := context.Background()

	// typed input passes through unconverted
	output, err := service.Invoke(ctx, "echo.say", &echoInput{Message: "typed"})
	assert.NoError(t, err)
	assert.Equal(t, "typed", output.(*echoOutput).Message)

	// loosely-typed input is converted
	output, err = service.Invoke(ctx, "echo.say", map[string]interface{}{"message": "loose"})
	assert.NoError(t, err)
	assert.Equal(t, "loose", output.(*echoOutput).Message)

	_, err = service.Invoke(ctx, "echo.shout", nil)
	assert.Error(t, err)
	_, err = service.Invoke(ctx, "missing.say", nil)
	assert.Error(t, err)
	_, err = service.Invoke(ctx, "malformed", nil)
	assert.Error(t, err)
}
