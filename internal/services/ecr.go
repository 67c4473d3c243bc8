package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	apperrors "github.com/euron-one/medichat-deployer/internal/errors"
)

// ECRService wraps the ECR and STS clients behind the three registry
// operations the deployment pipeline needs.
type ECRService struct {
	client    *ecr.Client
	stsClient *sts.Client
}

func NewECRService(cfg aws.Config) *ECRService {
	return &ECRService{
		client:    ecr.NewFromConfig(cfg),
		stsClient: sts.NewFromConfig(cfg),
	}
}

// RepositoryInfo describes an ECR repository after EnsureRepository.
type RepositoryInfo struct {
	Name    string
	ARN     string
	URI     string
	Created bool
}

// RegistryAuth holds short-lived docker login credentials for the registry.
type RegistryAuth struct {
	Username      string
	Password      string
	ServerAddress string
}

// ResolveAccountID returns the AWS account ID of the ambient credentials.
func (s *ECRService) ResolveAccountID(ctx context.Context) (string, error) {
	output, err := s.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return aws.ToString(output.Account), nil
}

// EnsureRepository creates an ECR repository with scan-on-push and AES256
// encryption at rest. A repository that already exists is not an error: it
// is described and returned with Created false. Any other creation failure
// is surfaced to the caller.
func (s *ECRService) EnsureRepository(ctx context.Context, repositoryName string) (*RepositoryInfo, error) {
	input := &ecr.CreateRepositoryInput{
		RepositoryName: aws.String(repositoryName),
		ImageScanningConfiguration: &types.ImageScanningConfiguration{
			ScanOnPush: true,
		},
		EncryptionConfiguration: &types.EncryptionConfiguration{
			EncryptionType: types.EncryptionTypeAes256,
		},
		Tags: []types.Tag{
			{
				Key:   aws.String("ManagedBy"),
				Value: aws.String("medichat-deployer"),
			},
		},
	}

	output, err := s.client.CreateRepository(ctx, input)
	if err != nil {
		if !isRepositoryExists(err) {
			return nil, fmt.Errorf("failed to create repository %q: %w", repositoryName, err)
		}

		// Repository exists, describe it to get details
		describeOutput, describeErr := s.client.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
			RepositoryNames: []string{repositoryName},
		})
		if describeErr != nil {
			return nil, fmt.Errorf("repository exists but failed to describe: %w", describeErr)
		}
		if len(describeOutput.Repositories) == 0 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrRepositoryNotDescribed, repositoryName)
		}
		repo := describeOutput.Repositories[0]
		return &RepositoryInfo{
			Name: aws.ToString(repo.RepositoryName),
			ARN:  aws.ToString(repo.RepositoryArn),
			URI:  aws.ToString(repo.RepositoryUri),
		}, nil
	}

	return &RepositoryInfo{
		Name:    aws.ToString(output.Repository.RepositoryName),
		ARN:     aws.ToString(output.Repository.RepositoryArn),
		URI:     aws.ToString(output.Repository.RepositoryUri),
		Created: true,
	}, nil
}

// AuthorizationToken fetches a short-lived docker credential for the
// account's default registry.
func (s *ECRService) AuthorizationToken(ctx context.Context) (RegistryAuth, error) {
	output, err := s.client.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return RegistryAuth{}, fmt.Errorf("failed to get authorization token: %w", err)
	}
	if len(output.AuthorizationData) == 0 {
		return RegistryAuth{}, apperrors.ErrNoAuthorizationData
	}

	data := output.AuthorizationData[0]
	return decodeAuthorizationData(
		aws.ToString(data.AuthorizationToken),
		aws.ToString(data.ProxyEndpoint),
	)
}

// decodeAuthorizationData unpacks the base64 "user:password" token ECR
// returns alongside the registry endpoint.
func decodeAuthorizationData(token, proxyEndpoint string) (RegistryAuth, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return RegistryAuth{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedAuthToken, err)
	}

	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return RegistryAuth{}, apperrors.ErrMalformedAuthToken
	}

	return RegistryAuth{
		Username:      username,
		Password:      password,
		ServerAddress: strings.TrimPrefix(proxyEndpoint, "https://"),
	}, nil
}

// isRepositoryExists reports whether err is ECR's already-exists condition.
// Only this failure class is safe to treat as idempotent success.
func isRepositoryExists(err error) bool {
	var exists *types.RepositoryAlreadyExistsException
	if errors.As(err, &exists) {
		return true
	}

	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "RepositoryAlreadyExistsException"
}
