package aws

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/ubuntu/decorate"

	"github.com/diillson/cloud-exit-assessment/internal/domain/entity"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

// resourceCode is a catalogue code of the form AWS.<service>.<operation>.<resultKey>.
type resourceCode struct {
	Service   string
	Operation string
	ResultKey string
}

// key folds the operation to lower case without underscores, so the API
// name (DescribeInstances) and the SDK method name (describe_instances)
// resolve to the same lister.
func (c resourceCode) key() string {
	op := strings.ReplaceAll(strings.ToLower(c.Operation), "_", "")
	return strings.ToLower(c.Service) + "." + op
}

func parseResourceCode(code string) (resourceCode, error) {
	parts := strings.Split(strings.TrimSpace(code), ".")
	if len(parts) != 4 || parts[0] != "AWS" {
		return resourceCode{}, fmt.Errorf("%w: invalid AWS resource code %q", types.ErrMalformedInput, code)
	}
	for _, p := range parts[1:] {
		if p == "" {
			return resourceCode{}, fmt.Errorf("%w: invalid AWS resource code %q", types.ErrMalformedInput, code)
		}
	}
	return resourceCode{Service: parts[1], Operation: parts[2], ResultKey: parts[3]}, nil
}

// lister counts the items an API operation returns across all pages.
type lister func(ctx context.Context, c *clients) (int, error)

// listers maps folded "<service>.<operation>" keys to the call that serves it.
var listers = map[string]lister{
	"ec2.describeinstances":       countInstances,
	"ec2.describevolumes":         countVolumes,
	"ec2.describevpcs":            countVpcs,
	"ec2.describesecuritygroups":  countSecurityGroups,
	"ec2.describesnapshots":       countSnapshots,
	"ec2.describeaddresses":       countAddresses,
	"ec2.describenatgateways":     countNatGateways,
	"rds.describedbinstances":     countDBInstances,
	"rds.describedbclusters":      countDBClusters,
	"s3.listbuckets":              countBuckets,
	"lambda.listfunctions":        countFunctions,
	"elbv2.describeloadbalancers": countLoadBalancers,
	"logs.describeloggroups":      countLogGroups,
	"budgets.describebudgets":     countBudgets,
}

// SupportedOperations lists the operation keys FetchResources can serve.
func SupportedOperations() []string {
	keys := make([]string, 0, len(listers))
	for k := range listers {
		keys = append(keys, k)
	}
	return keys
}

// FetchResources counts the resources behind each catalogue code in the
// configured region. Codes without a lister and failing calls are skipped;
// one failing service does not abort the inventory.
func (r *Repository) FetchResources(ctx context.Context, details types.ProviderDetails, codes []string) (records []entity.RawResourceRecord, err error) {
	defer decorate.OnError(&err, "fetching AWS resources")

	logger := zerolog.Ctx(ctx)

	c, err := r.clientsFor(ctx, details)
	if err != nil {
		return nil, err
	}

	type job struct {
		code string
		fn   lister
	}
	var jobs []job
	for _, code := range codes {
		rc, err := parseResourceCode(code)
		if err != nil {
			logger.Debug().Err(err).Msg("Skipping resource code")
			continue
		}
		fn, ok := listers[rc.key()]
		if !ok {
			logger.Warn().Str("code", code).Msg("No lister for resource code")
			continue
		}
		jobs = append(jobs, job{code: code, fn: fn})
	}

	counts := make([]int, len(jobs))
	ok := make([]bool, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			n, err := j.fn(ctx, c)
			if err != nil {
				logger.Warn().Err(err).Str("code", j.code).Msg("Resource listing failed")
				return
			}
			counts[i] = n
			ok[i] = true
		}(i, j)
	}
	wg.Wait()

	records = make([]entity.RawResourceRecord, 0, len(jobs))
	for i, j := range jobs {
		if !ok[i] {
			continue
		}
		n := counts[i]
		records = append(records, entity.RawResourceRecord{
			ProviderTypeCode: j.code,
			Location:         c.region,
			RawCount:         &n,
		})
	}

	logger.Info().Int("codes", len(codes)).Int("records", len(records)).Msg("AWS resource listing complete")
	return records, nil
}

// drain walks a paginator and sums the per-page item counts.
func drain(ctx context.Context, hasMore func() bool, next func(context.Context) (int, error)) (int, error) {
	total := 0
	for hasMore() {
		n, err := next(ctx)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func countInstances(ctx context.Context, c *clients) (int, error) {
	p := ec2.NewDescribeInstancesPaginator(c.ec2, &ec2.DescribeInstancesInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		n := 0
		for _, reservation := range page.Reservations {
			n += len(reservation.Instances)
		}
		return n, nil
	})
}

func countVolumes(ctx context.Context, c *clients) (int, error) {
	p := ec2.NewDescribeVolumesPaginator(c.ec2, &ec2.DescribeVolumesInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.Volumes), nil
	})
}

func countVpcs(ctx context.Context, c *clients) (int, error) {
	p := ec2.NewDescribeVpcsPaginator(c.ec2, &ec2.DescribeVpcsInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.Vpcs), nil
	})
}

func countSecurityGroups(ctx context.Context, c *clients) (int, error) {
	p := ec2.NewDescribeSecurityGroupsPaginator(c.ec2, &ec2.DescribeSecurityGroupsInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.SecurityGroups), nil
	})
}

func countSnapshots(ctx context.Context, c *clients) (int, error) {
	p := ec2.NewDescribeSnapshotsPaginator(c.ec2, &ec2.DescribeSnapshotsInput{OwnerIds: []string{"self"}})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.Snapshots), nil
	})
}

func countAddresses(ctx context.Context, c *clients) (int, error) {
	out, err := c.ec2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return 0, err
	}
	return len(out.Addresses), nil
}

func countNatGateways(ctx context.Context, c *clients) (int, error) {
	p := ec2.NewDescribeNatGatewaysPaginator(c.ec2, &ec2.DescribeNatGatewaysInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.NatGateways), nil
	})
}

func countDBInstances(ctx context.Context, c *clients) (int, error) {
	p := rds.NewDescribeDBInstancesPaginator(c.rds, &rds.DescribeDBInstancesInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.DBInstances), nil
	})
}

func countDBClusters(ctx context.Context, c *clients) (int, error) {
	p := rds.NewDescribeDBClustersPaginator(c.rds, &rds.DescribeDBClustersInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.DBClusters), nil
	})
}

func countBuckets(ctx context.Context, c *clients) (int, error) {
	out, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return 0, err
	}
	return len(out.Buckets), nil
}

func countFunctions(ctx context.Context, c *clients) (int, error) {
	p := lambda.NewListFunctionsPaginator(c.lambda, &lambda.ListFunctionsInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.Functions), nil
	})
}

func countLoadBalancers(ctx context.Context, c *clients) (int, error) {
	p := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(c.elbv2, &elasticloadbalancingv2.DescribeLoadBalancersInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.LoadBalancers), nil
	})
}

func countLogGroups(ctx context.Context, c *clients) (int, error) {
	p := cloudwatchlogs.NewDescribeLogGroupsPaginator(c.logs, &cloudwatchlogs.DescribeLogGroupsInput{})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.LogGroups), nil
	})
}

func countBudgets(ctx context.Context, c *clients) (int, error) {
	account, err := c.accountID(ctx)
	if err != nil {
		return 0, err
	}
	p := budgets.NewDescribeBudgetsPaginator(c.budgets, &budgets.DescribeBudgetsInput{AccountId: aws.String(account)})
	return drain(ctx, p.HasMorePages, func(ctx context.Context) (int, error) {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		return len(page.Budgets), nil
	})
}
