package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/samber/lo"
)

// NameTagKey is the tag holding an instance's display name.
const NameTagKey = "Name"

// toInstance maps an EC2 instance onto the provider-neutral Instance.
func toInstance(instance ec2types.Instance) provider.Instance {
	result := provider.Instance{
		ID:            aws.ToString(instance.InstanceId),
		Name:          nameFromTags(instance.Tags),
		State:         provider.StateUnknown,
		PublicAddress: aws.ToString(instance.PublicIpAddress),
		Type:          string(instance.InstanceType),
	}

	if instance.State != nil {
		result.State = provider.ParseLifecycleState(string(instance.State.Name))
	}

	if instance.Placement != nil {
		result.Zone = aws.ToString(instance.Placement.AvailabilityZone)
	}

	return result
}

// nameFromTags looks the Name tag up by key. Instances without it keep an empty name.
func nameFromTags(tags []ec2types.Tag) string {
	tag, found := lo.Find(tags, func(tag ec2types.Tag) bool {
		return aws.ToString(tag.Key) == NameTagKey
	})
	if !found {
		return ""
	}

	return aws.ToString(tag.Value)
}
