package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// SSMAPI is the minimal AWS SSM interface required by SSMSource.
// *ssm.Client from aws-sdk-go-v2 satisfies this interface.
type SSMAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMSource reads credentials from AWS SSM Parameter Store. The parameter
// for a provider is named "{prefix}/{provider}" and is decrypted on read.
type SSMSource struct {
	api    SSMAPI
	prefix string
}

// NewSSMSource creates an SSMSource using api.
func NewSSMSource(api SSMAPI, prefix string) (*SSMSource, error) {
	if api == nil {
		return nil, errors.New("ssm source: api must not be nil")
	}
	return &SSMSource{api: api, prefix: strings.TrimRight(prefix, "/")}, nil
}

func (s *SSMSource) Name() string {
	return "ssm"
}

// ParameterName returns the SSM parameter name for provider.
func (s *SSMSource) ParameterName(provider string) string {
	return s.prefix + "/" + provider
}

// Lookup returns "" when the parameter does not exist.
func (s *SSMSource) Lookup(ctx context.Context, provider string) (string, error) {
	name := s.ParameterName(provider)

	out, err := s.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("get parameter %q: %w", name, err)
	}
	if out == nil || out.Parameter == nil {
		return "", nil
	}

	return strings.TrimSpace(aws.ToString(out.Parameter.Value)), nil
}
