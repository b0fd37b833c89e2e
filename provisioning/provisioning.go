// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package provisioning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
)

// ChainNetwork is where a chain can be reached and where the bridge
// contracts are deployed on it.
type ChainNetwork struct {
	Name         string `mapstructure:"name" json:"name"`
	Endpoint     string `mapstructure:"endpoint" json:"endpoint,omitempty"`
	Initiator    string `mapstructure:"initiator" json:"initiator,omitempty"`
	Counterparty string `mapstructure:"counterparty" json:"counterparty,omitempty"`
}

type Network struct {
	Chains []ChainNetwork `json:"chains"`
}

func (n *Network) Chain(name string) (ChainNetwork, bool) {
	for _, c := range n.Chains {
		if c.Name == name {
			return c, true
		}
	}
	return ChainNetwork{}, false
}

type Provisioner interface {
	// Network returns the endpoints and contract addresses of every chain
	// the bridge is deployed on.
	Network(ctx context.Context) (*Network, error)
}

// StaticProvisioner serves the network described by the chain configs
// themselves.
type StaticProvisioner struct {
	network *Network
}

func NewStaticProvisioner(chainConfigs []map[string]interface{}) (*StaticProvisioner, error) {
	network := &Network{Chains: make([]ChainNetwork, 0, len(chainConfigs))}
	for _, chainConfig := range chainConfigs {
		var c ChainNetwork
		if err := mapstructure.Decode(chainConfig, &c); err != nil {
			return nil, err
		}
		network.Chains = append(network.Chains, c)
	}
	return &StaticProvisioner{network: network}, nil
}

func (p *StaticProvisioner) Network(ctx context.Context) (*Network, error) {
	return p.network, nil
}

type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client loads the default AWS credential chain for region. A non empty
// endpoint selects an S3 compatible service instead of AWS.
func NewS3Client(ctx context.Context, region string, endpoint string) (*s3.Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Provisioner reads a JSON network descriptor from an S3 bucket.
type S3Provisioner struct {
	bucket   string
	key      string
	hash     string
	s3Client S3Client
}

// NewS3Provisioner creates a provisioner reading key from bucket. A non empty
// hash is the expected hex sha256 of the descriptor.
func NewS3Provisioner(s3Client S3Client, bucket string, key string, hash string) *S3Provisioner {
	return &S3Provisioner{
		bucket:   bucket,
		key:      key,
		hash:     hash,
		s3Client: s3Client,
	}
}

func (p *S3Provisioner) Network(ctx context.Context) (*Network, error) {
	log.Info().Msgf("Reading network from S3 bucket: %s, file: %s", p.bucket, p.key)

	output, err := p.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &p.bucket,
		Key:    &p.key,
	})
	if err != nil {
		return nil, err
	}

	defer output.Body.Close()
	body, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, err
	}

	h := sha256.Sum256(body)
	eh := hex.EncodeToString(h[:])
	if p.hash != "" && eh != p.hash {
		return nil, fmt.Errorf("network hash %s not matching expected hash %s", eh, p.hash)
	}

	network := &Network{}
	err = json.Unmarshal(body, network)
	if err != nil {
		return nil, err
	}
	for _, c := range network.Chains {
		if c.Name == "" {
			return nil, fmt.Errorf("network descriptor contains a chain without a name")
		}
	}
	return network, nil
}

// Apply fills endpoints and contract addresses missing from chainConfigs
// with the values network provides for the chain of the same name.
func Apply(network *Network, chainConfigs []map[string]interface{}) {
	for _, chainConfig := range chainConfigs {
		name, _ := chainConfig["name"].(string)
		provisioned, ok := network.Chain(name)
		if !ok {
			continue
		}

		values := make(map[string]interface{})
		if provisioned.Endpoint != "" {
			values["endpoint"] = provisioned.Endpoint
		}
		if provisioned.Initiator != "" {
			values["initiator"] = provisioned.Initiator
		}
		if provisioned.Counterparty != "" {
			values["counterparty"] = provisioned.Counterparty
		}
		for k, v := range values {
			if existing, ok := chainConfig[k]; ok && existing != nil && existing != "" {
				continue
			}
			chainConfig[k] = v
		}
	}
}
