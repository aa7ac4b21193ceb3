package aws

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/domain/repository"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// Cost Explorer and Budgets are global services served from us-east-1.
const globalRegion = "us-east-1"

// Repository implements repository.CloudRepository for AWS with a cache of
// loaded configurations.
type Repository struct {
	cfgCache map[string]aws.Config
	mu       sync.Mutex
}

// NewRepository creates the AWS cloud repository.
func NewRepository() repository.CloudRepository {
	return &Repository{cfgCache: make(map[string]aws.Config)}
}

// Provider identifies the repository as the AWS collaborator.
func (r *Repository) Provider() entity.Provider { return entity.ProviderAWS }

func cacheKey(details types.ProviderDetails) string {
	if details.Profile != "" {
		return "profile:" + details.Profile + ":" + details.Region
	}
	return "keys:" + details.AccessKey + ":" + details.Region
}

func (r *Repository) getAWSConfig(ctx context.Context, details types.ProviderDetails) (aws.Config, error) {
	key := cacheKey(details)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[key]; ok {
		return cfg, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(details.Region)}
	switch {
	case details.Profile != "":
		opts = append(opts, config.WithSharedConfigProfile(details.Profile))
	case details.AccessKey != "":
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(details.AccessKey, details.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	r.cfgCache[key] = cfg
	return cfg, nil
}

// clients holds the service clients of one assessment run.
type clients struct {
	region  string
	ec2     *ec2.Client
	rds     *rds.Client
	s3      *s3.Client
	lambda  *lambda.Client
	elbv2   *elasticloadbalancingv2.Client
	logs    *cloudwatchlogs.Client
	budgets *budgets.Client
	sts     *sts.Client
	ce      *costexplorer.Client
}

func newClients(cfg aws.Config) *clients {
	global := cfg.Copy()
	global.Region = globalRegion

	return &clients{
		region:  cfg.Region,
		ec2:     ec2.NewFromConfig(cfg),
		rds:     rds.NewFromConfig(cfg),
		s3:      s3.NewFromConfig(cfg),
		lambda:  lambda.NewFromConfig(cfg),
		elbv2:   elasticloadbalancingv2.NewFromConfig(cfg),
		logs:    cloudwatchlogs.NewFromConfig(cfg),
		budgets: budgets.NewFromConfig(global),
		sts:     sts.NewFromConfig(cfg),
		ce:      costexplorer.NewFromConfig(global),
	}
}

func (r *Repository) clientsFor(ctx context.Context, details types.ProviderDetails) (*clients, error) {
	cfg, err := r.getAWSConfig(ctx, details)
	if err != nil {
		return nil, err
	}
	return newClients(cfg), nil
}

func (c *clients) accountID(ctx context.Context) (string, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting caller identity: %w", err)
	}
	return aws.ToString(out.Account), nil
}

// CheckAuthorization resolves the caller identity and checks Cost Explorer access.
// Both must succeed for the account to be assessable.
func (r *Repository) CheckAuthorization(ctx context.Context, details types.ProviderDetails) (entity.AuthorizationResult, error) {
	c, err := r.clientsFor(ctx, details)
	if err != nil {
		return entity.AuthorizationResult{}, err
	}

	account, err := c.accountID(ctx)
	if err != nil {
		return entity.AuthorizationResult{Reason: fmt.Sprintf("credentials rejected: %v", err)}, nil
	}

	var missing []string
	if err := c.checkCostAccess(ctx); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("Cost Explorer access check failed")
		missing = append(missing, "cost explorer read access")
	}
	if len(missing) > 0 {
		return entity.AuthorizationResult{
			AccountID: account,
			Reason:    "missing " + strings.Join(missing, ", "),
		}, nil
	}

	return entity.AuthorizationResult{Authorized: true, AccountID: account}, nil
}
