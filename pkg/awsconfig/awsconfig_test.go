package awsconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockSSM struct {
	GetParameterFunc func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

func (m *MockSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return m.GetParameterFunc(ctx, params, optFns...)
}

type MockSecrets struct {
	GetSecretValueFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func (m *MockSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return m.GetSecretValueFunc(ctx, params, optFns...)
}

// --- Testes ---

func TestResolver_Parameter(t *testing.T) {
	t.Run("Sucesso", func(t *testing.T) {
		client := &MockSSM{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				assert.Equal(t, "/app/queue", *params.Name)
				assert.True(t, *params.WithDecryption)
				return &ssm.GetParameterOutput{
					Parameter: &types.Parameter{Value: aws.String("https://sqs/queue")},
				}, nil
			},
		}

		r := NewResolverWithClients(client, nil)
		val, err := r.Parameter(context.Background(), "/app/queue")
		require.NoError(t, err)
		assert.Equal(t, "https://sqs/queue", val)
	})

	t.Run("Erro na AWS", func(t *testing.T) {
		client := &MockSSM{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				return nil, errors.New("access denied")
			},
		}

		r := NewResolverWithClients(client, nil)
		_, err := r.Parameter(context.Background(), "/app/queue")
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("Parametro sem valor", func(t *testing.T) {
		client := &MockSSM{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				return &ssm.GetParameterOutput{}, nil
			},
		}

		r := NewResolverWithClients(client, nil)
		_, err := r.Parameter(context.Background(), "/app/queue")
		assert.Error(t, err)
	})
}

func TestResolver_Secret(t *testing.T) {
	secrets := &MockSecrets{
		GetSecretValueFunc: func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
			switch *params.SecretId {
			case "plain":
				return &secretsmanager.GetSecretValueOutput{SecretString: aws.String("s3cr3t")}, nil
			case "json":
				return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"user":"admin","port":5432}`)}, nil
			}
			return nil, errors.New("not found")
		},
	}
	r := NewResolverWithClients(nil, secrets)
	ctx := context.Background()

	t.Run("Texto puro", func(t *testing.T) {
		val, err := r.Secret(ctx, "plain")
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t", val)
	})

	t.Run("Campo de segredo JSON", func(t *testing.T) {
		val, err := r.Secret(ctx, "json#user")
		require.NoError(t, err)
		assert.Equal(t, "admin", val)

		val, err = r.Secret(ctx, "json#port")
		require.NoError(t, err)
		assert.Equal(t, "5432", val)
	})

	t.Run("Campo inexistente", func(t *testing.T) {
		_, err := r.Secret(ctx, "json#password")
		assert.ErrorContains(t, err, "no field password")
	})

	t.Run("Campo em segredo que nao e JSON", func(t *testing.T) {
		_, err := r.Secret(ctx, "plain#user")
		assert.Error(t, err)
	})

	t.Run("Erro na AWS", func(t *testing.T) {
		_, err := r.Secret(ctx, "missing")
		assert.ErrorContains(t, err, "not found")
	})
}
