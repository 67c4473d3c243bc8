package deployer

import "fmt"

// RegistryHost returns the ECR registry hostname for an account and region.
func RegistryHost(accountID, region string) string {
	return fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", accountID, region)
}

// ImageURI returns the fully qualified image reference pushed by the
// pipeline: {account}.dkr.ecr.{region}.amazonaws.com/{repository}:{tag}.
func ImageURI(accountID, region, repository, tag string) string {
	return fmt.Sprintf("%s/%s:%s", RegistryHost(accountID, region), repository, tag)
}

// LocalReference returns the image reference used on the local daemon
// before the registry re-tag.
func LocalReference(repository, tag string) string {
	return repository + ":" + tag
}
