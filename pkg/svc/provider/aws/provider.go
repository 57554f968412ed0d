package aws

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// EC2API is the subset of the EC2 API used by the provider.
type EC2API interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)

	StartInstances(
		ctx context.Context,
		params *ec2.StartInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.StartInstancesOutput, error)

	StopInstances(
		ctx context.Context,
		params *ec2.StopInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.StopInstancesOutput, error)
}

// Credentials holds the static AWS credentials and region used to build the clients.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	// SessionToken is optional and only set for temporary credentials.
	SessionToken string
	Region       string
}

// Validate checks that the mandatory credential fields are present.
func (c Credentials) Validate() error {
	missing := make([]string, 0, 3)

	if c.AccessKeyID == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}

	if c.SecretAccessKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}

	if c.Region == "" {
		missing = append(missing, "AWS_DEFAULT_REGION")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", provider.ErrAuth, missing)
	}

	return nil
}

// Provider implements provider.Provider for EC2 instances.
type Provider struct {
	ec2    EC2API
	sts    STSAPI
	logger logrus.FieldLogger
}

// Compile-time interface compliance verification.
var _ provider.Provider = (*Provider)(nil)

// NewProvider creates a new EC2 provider with the given clients.
// A nil logger discards log output.
func NewProvider(ec2Client EC2API, stsClient STSAPI, logger logrus.FieldLogger) *Provider {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &Provider{
		ec2:    ec2Client,
		sts:    stsClient,
		logger: logger,
	}
}

// NewProviderFromCredentials validates creds and builds EC2 and STS clients from them.
// No network call is made.
func NewProviderFromCredentials(
	ctx context.Context,
	creds Credentials,
	logger logrus.FieldLogger,
) (*Provider, error) {
	err := creds.Validate()
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", ctx.Err())
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(creds.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			creds.SessionToken,
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewProvider(ec2.NewFromConfig(cfg), sts.NewFromConfig(cfg), logger), nil
}

// IsAvailable checks if the provider has a usable EC2 client.
func (p *Provider) IsAvailable() bool {
	return p.ec2 != nil
}

// ListInstances returns every instance in the configured region.
func (p *Provider) ListInstances(ctx context.Context) ([]provider.Instance, error) {
	if !p.IsAvailable() {
		return nil, provider.ErrProviderUnavailable
	}

	return p.describe(ctx, &ec2.DescribeInstancesInput{})
}

// DescribeInstances returns the instances with the given ids.
func (p *Provider) DescribeInstances(ctx context.Context, ids []string) ([]provider.Instance, error) {
	if len(ids) == 0 {
		return []provider.Instance{}, nil
	}

	if !p.IsAvailable() {
		return nil, provider.ErrProviderUnavailable
	}

	return p.describe(ctx, &ec2.DescribeInstancesInput{InstanceIds: lo.Uniq(ids)})
}

// StartInstance requests that the instance be started.
func (p *Provider) StartInstance(ctx context.Context, id string) error {
	if !p.IsAvailable() {
		return provider.ErrProviderUnavailable
	}

	p.logger.WithField("instance", id).Debug("requesting StartInstances")

	_, err := p.ec2.StartInstances(ctx, &ec2.StartInstancesInput{InstanceIds: []string{id}})
	if err != nil {
		return classifyError("StartInstances", err)
	}

	return nil
}

// StopInstance requests that the instance be stopped.
func (p *Provider) StopInstance(ctx context.Context, id string) error {
	if !p.IsAvailable() {
		return provider.ErrProviderUnavailable
	}

	p.logger.WithField("instance", id).Debug("requesting StopInstances")

	_, err := p.ec2.StopInstances(ctx, &ec2.StopInstancesInput{InstanceIds: []string{id}})
	if err != nil {
		return classifyError("StopInstances", err)
	}

	return nil
}

// describe walks every page of DescribeInstances for the given input.
func (p *Provider) describe(
	ctx context.Context,
	input *ec2.DescribeInstancesInput,
) ([]provider.Instance, error) {
	paginator := ec2.NewDescribeInstancesPaginator(p.ec2, input)
	instances := []provider.Instance{}

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError("DescribeInstances", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				instances = append(instances, toInstance(instance))
			}
		}
	}

	p.logger.WithField("count", len(instances)).Debug("described instances")

	return instances, nil
}
