package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
)

// STSAPI is the subset of the STS API used to verify credentials.
type STSAPI interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// Identity describes the principal behind the configured credentials.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// CallerIdentity returns the identity the configured credentials resolve to.
func (p *Provider) CallerIdentity(ctx context.Context) (Identity, error) {
	if p.sts == nil {
		return Identity{}, provider.ErrProviderUnavailable
	}

	out, err := p.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, classifyError("GetCallerIdentity", err)
	}

	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
