package oauth2backend

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3assets"
	"github.com/aws/jsii-runtime-go"
)

// codeSource hands out lambda code for an entry module. A local directory
// is staged once and shared by all functions.
type codeSource struct {
	stack  awscdk.Stack
	props  StackProps
	local  awslambda.Code
	bucket awss3.IBucket
}

func newCodeSource(stack awscdk.Stack, props StackProps) *codeSource {
	return &codeSource{stack: stack, props: props}
}

func (c *codeSource) forEntry(entry string) awslambda.Code {
	if c.props.CodeDir != "" {
		if c.local == nil {
			c.local = getLocalCode(c.props.CodeDir)
		}
		return c.local
	}

	if c.bucket == nil {
		c.bucket = awss3.Bucket_FromBucketName(
			c.stack,
			jsii.String("CodeBucket"),
			jsii.String(c.props.S3BucketName+"-"+*c.stack.Region()),
		)
	}
	return getCodeFromS3(c.bucket, s3Key(c.props, entry))
}

func s3Key(props StackProps, entry string) string {
	key := props.S3KeyPrefix + entry
	if props.Version != "" {
		key += "-" + props.Version
	}
	return key + ".zip"
}

func getLocalCode(localPath string) awslambda.Code {
	return awslambda.Code_FromAsset(
		jsii.String(localPath),
		&awss3assets.AssetOptions{},
	)
}

func getCodeFromS3(bucket awss3.IBucket, s3FileName string) awslambda.Code {
	return awslambda.Code_FromBucket(
		bucket,
		jsii.String(s3FileName),
		nil,
	)
}
