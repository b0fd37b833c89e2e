// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/sprintertech/atomic-bridge/provisioning"
)

var NetworkCLI = &cobra.Command{
	Use:   "network",
	Short: "Network descriptor related commands",
}

var (
	testNetworkCMD = &cobra.Command{
		Use:   "test",
		Short: "Test network descriptor from S3",
		Long: "CLI tests does provided S3 bucket contain a network descriptor that " +
			"matches the expected hash and could be parsed accordingly",
		RunE: testNetwork,
	}
)

var (
	bucket    string
	key       string
	region    string
	endpoint  string
	accessKey string
	secretKey string
	hash      string
)

func init() {
	testNetworkCMD.PersistentFlags().StringVar(&bucket, "bucket", "", "S3 bucket name")
	_ = testNetworkCMD.MarkFlagRequired("bucket")
	testNetworkCMD.PersistentFlags().StringVar(&key, "key", "network.json", "S3 object key of the descriptor")
	testNetworkCMD.PersistentFlags().StringVar(&region, "region", "us-east-1", "S3 region")
	testNetworkCMD.PersistentFlags().StringVar(&endpoint, "endpoint", "", "S3 compatible endpoint")
	testNetworkCMD.PersistentFlags().StringVar(&accessKey, "access-key", "", "S3 access key")
	_ = testNetworkCMD.MarkFlagRequired("access-key")
	testNetworkCMD.PersistentFlags().StringVar(&secretKey, "secret-key", "", "S3 secret key")
	_ = testNetworkCMD.MarkFlagRequired("secret-key")
	testNetworkCMD.PersistentFlags().StringVar(&hash, "hash", "", "hash of network descriptor")

	NetworkCLI.AddCommand(testNetworkCMD)
}

func testNetwork(cmd *cobra.Command, args []string) error {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		return err
	}
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	network, err := provisioning.NewS3Provisioner(s3Client, bucket, key, hash).Network(cmd.Context())
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(network, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("Everything is fine your network is \n")
	fmt.Printf("%s\n", out)
	return nil
}
