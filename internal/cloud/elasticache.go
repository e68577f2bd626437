package cloud

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticache"
	"github.com/aws/aws-sdk-go-v2/service/elasticache/types"
	"github.com/containerd/errdefs"

	"github.com/sarth-shah20/shardcompose/internal/topology"
)

// ReplicationGroupAPI is the part of the ElastiCache client the importer uses.
type ReplicationGroupAPI interface {
	DescribeReplicationGroups(ctx context.Context, params *elasticache.DescribeReplicationGroupsInput, optFns ...func(*elasticache.Options)) (*elasticache.DescribeReplicationGroupsOutput, error)
}

// ImportReplicationGroup reads a cluster-mode replication group and maps its
// members onto a local topology starting at basePort.
func ImportReplicationGroup(ctx context.Context, api ReplicationGroupAPI, groupID string, basePort int) (topology.Table, error) {
	out, err := api.DescribeReplicationGroups(ctx, &elasticache.DescribeReplicationGroupsInput{
		ReplicationGroupId: aws.String(groupID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe replication group %s: %w", groupID, err)
	}

	for _, rg := range out.ReplicationGroups {
		if aws.ToString(rg.ReplicationGroupId) == groupID {
			if len(rg.NodeGroups) == 0 {
				return nil, fmt.Errorf("%w: replication group %s has no node groups", errdefs.ErrNotFound, groupID)
			}
			return FromNodeGroups(rg.NodeGroups, basePort)
		}
	}

	return nil, fmt.Errorf("%w: replication group %s", errdefs.ErrNotFound, groupID)
}

// FromNodeGroups builds a topology with one node per node group member.
// Primaries come first, one per node group, followed by the replicas grouped
// by node group; node groups are ordered by id so the result is stable.
func FromNodeGroups(groups []types.NodeGroup, basePort int) (topology.Table, error) {
	sorted := append([]types.NodeGroup(nil), groups...)
	sort.Slice(sorted, func(i, j int) bool {
		return aws.ToString(sorted[i].NodeGroupId) < aws.ToString(sorted[j].NodeGroupId)
	})

	var primaries, replicas []string
	for _, g := range sorted {
		slots := SlotLabel(aws.ToString(g.Slots))

		primaries = append(primaries, slots)
		for i := 1; i < len(g.NodeGroupMembers); i++ {
			replicas = append(replicas, slots)
		}
	}

	t := make(topology.Table, 0, len(primaries)+len(replicas))
	for i, slots := range append(primaries, replicas...) {
		n := topology.Node{
			Name:  fmt.Sprintf("node%d", i),
			Slots: slots,
			Port:  basePort + i,
		}
		n.Snapshot = topology.SnapshotName(slots, n.BusPort())
		t = append(t, n)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// SlotLabel turns an ElastiCache slot spec such as "0-5460" or
// "0-100,200-300" into a file-name friendly label ("0_5460", "0_100_200_300").
func SlotLabel(slots string) string {
	if slots == "" {
		return "0_16383"
	}
	return strings.NewReplacer("-", "_", ",", "_").Replace(slots)
}
