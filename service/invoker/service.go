// Package invoker dispatches loosely-typed calls to registered action
// services. Inputs that are not already of the method's declared type (for
// example a map decoded from JSON or YAML) are converted through
// structology before invocation.
package invoker

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/scriptgate/extension"
	"github.com/viant/structology/conv"
)

// Service invokes registered action methods by their qualified name.
type Service struct {
	actions   *extension.Actions
	converter *conv.Converter
}

// New creates an invoker over the given action registry.
func New(actions *extension.Actions) *Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	return &Service{
		actions:   actions,
		converter: conv.NewConverter(options),
	}
}

// Invoke executes action ("service.method") with the supplied input and
// returns the method's typed output.
func (s *Service) Invoke(ctx context.Context, action string, input interface{}) (interface{}, error) {
	idx := strings.LastIndex(action, ".")
	if idx == -1 {
		return nil, fmt.Errorf("invalid action %v, expected service.method", action)
	}
	serviceName, methodName := action[:idx], action[idx+1:]

	actionService := s.actions.Lookup(serviceName)
	if actionService == nil {
		return nil, fmt.Errorf("service %v not found", serviceName)
	}
	signature := actionService.Methods().Lookup(methodName)
	if signature == nil {
		return nil, fmt.Errorf("method %v not found for service %v", methodName, serviceName)
	}
	method, err := actionService.Method(methodName)
	if err != nil {
		return nil, err
	}

	typedInput, err := s.typedValue(signature.Input, input)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %v input: %w", action, err)
	}
	output := newInstance(signature.Output)
	if err = method(ctx, typedInput, output); err != nil {
		return output, err
	}
	return output, nil
}

func (s *Service) typedValue(target reflect.Type, value interface{}) (interface{}, error) {
	if value != nil && reflect.TypeOf(value) == target {
		return value, nil
	}
	instance := newInstance(target)
	if value == nil {
		return instance, nil
	}
	if err := s.converter.Convert(value, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func newInstance(t reflect.Type) interface{} {
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.New(t).Interface()
}
