package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/sarth-shah20/shardcompose/internal/topology"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "node0.log", LogFileName("node0"))
	assert.Equal(t, "./logs/node0.log", HostLogPath("logs", "node0"))
	assert.Equal(t, "./logs/node0.log", HostLogPath("./logs", "node0"))
	assert.Equal(t, "/var/log/shard/node0.log", HostLogPath("/var/log/shard", "node0"))
	assert.Equal(t, "/app/logs/node0.log", ContainerLogPath("/app/", "node0"))
	assert.Equal(t, "/app/logs/microservice.log", ContainerLogPath("/app", "microservice"))
	assert.Equal(t, "redis_server/rdb_files/x.rdb", SnapshotBuildPath("redis_server/rdb_files", "x.rdb"))
	assert.Equal(t, "./redis_server/rdb_files/x.rdb", HostSnapshotPath("redis_server/rdb_files", "x.rdb"))
	assert.Equal(t, "/app/redis_server/rdb_files/x.rdb", ContainerSnapshotPath("/app/", "redis_server/rdb_files", "x.rdb"))
	assert.Equal(t, "4000:4000", PortBinding(4000))
	assert.Equal(t, "a:b", VolumeBinding("a", "b"))
	assert.Equal(t, "${ENCRYPTION_KEY}", SecretRef("ENCRYPTION_KEY"))
}

func TestNodeEndpoints(t *testing.T) {
	assert.Equal(t, "", NodeEndpoints(nil))
	assert.Equal(t, "node0:4000", NodeEndpoints(twoNodes()[:1]))
	assert.Equal(t, "node1:4001,node0:4000", NodeEndpoints(twoNodes()))
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.AddNetwork("net", Network{Driver: "bridge"})
	require.NoError(t, b.AddService("z", Service{}))
	require.NoError(t, b.AddService("a", Service{}))
	require.NoError(t, b.AddService("m", Service{}))
	assert.Error(t, b.AddService("a", Service{}))

	m := b.Build()
	assert.Equal(t, []string{"z", "a", "m"}, m.Services.Names())

	require.NoError(t, b.AddService("later", Service{}))
	assert.Len(t, m.Services, 3)
}

func TestMarshalKeyOrder(t *testing.T) {
	m, err := Synthesize(topology.Default(), DefaultOptions())
	require.NoError(t, err)

	out, err := Marshal(m)
	require.NoError(t, err)
	text := string(out)

	assert.True(t, strings.HasPrefix(text, "networks:\n  redinternanodos:\n    driver: bridge\nservices:\n  node0:\n"), text)

	last := -1
	for _, name := range m.Services.Names() {
		idx := strings.Index(text, "\n  "+name+":\n")
		require.Greater(t, idx, last, name)
		last = idx
	}

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &doc))
	root := doc.Content[0]
	require.Len(t, root.Content, 4)
	assert.Equal(t, "networks", root.Content[0].Value)
	assert.Equal(t, "services", root.Content[2].Value)
}

func TestMarshalRoundTrip(t *testing.T) {
	m, err := Synthesize(twoNodes(), DefaultOptions())
	require.NoError(t, err)

	out, err := Marshal(m)
	require.NoError(t, err)

	var doc struct {
		Services map[string]struct {
			Environment map[string]string `yaml:"environment"`
			Ports       []string          `yaml:"ports"`
			DependsOn   []string          `yaml:"depends_on"`
			Command     []string          `yaml:"command"`
			Ulimits     struct {
				Nofile struct {
					Soft int `yaml:"soft"`
					Hard int `yaml:"hard"`
				} `yaml:"nofile"`
			} `yaml:"ulimits"`
		} `yaml:"services"`
	}
	require.NoError(t, yaml.Unmarshal(out, &doc))

	node0 := doc.Services["node0"]
	assert.Equal(t, []string{"4000"}, node0.Command)
	assert.Equal(t, []string{"14000:14000", "4000:4000"}, node0.Ports)
	assert.Equal(t, "${ENCRYPTION_KEY}", node0.Environment["ENCRYPTION_KEY"])
	assert.Equal(t, 65536, node0.Ulimits.Nofile.Soft)

	llm := doc.Services["llm_microservice"]
	assert.Equal(t, "node1:4001,node0:4000", llm.Environment["REDIS_NODE_HOSTS"])
	assert.Equal(t, []string{"node0", "node1"}, llm.DependsOn)
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Synthesize(topology.Default(), DefaultOptions())
	require.NoError(t, err)
	second, err := Synthesize(topology.Default(), DefaultOptions())
	require.NoError(t, err)

	a, err := Marshal(first)
	require.NoError(t, err)
	b, err := Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	base := func() *Manifest {
		b := NewBuilder()
		b.AddNetwork("net", Network{Driver: "bridge"})
		return b.Build()
	}

	t.Run("bad port spec", func(t *testing.T) {
		m := base()
		m.Services = Services{{Name: "a", Service: Service{Ports: []string{"x:y"}}}}
		assert.Error(t, m.Validate())
	})

	t.Run("shared host port", func(t *testing.T) {
		m := base()
		m.Services = Services{
			{Name: "a", Service: Service{Ports: []string{"80:80"}}},
			{Name: "b", Service: Service{Ports: []string{"80:8080"}}},
		}
		assert.Error(t, m.Validate())
	})

	t.Run("same port different protocol", func(t *testing.T) {
		m := base()
		m.Services = Services{
			{Name: "a", Service: Service{Ports: []string{"53:53/tcp"}}},
			{Name: "b", Service: Service{Ports: []string{"53:53/udp"}}},
		}
		assert.NoError(t, m.Validate())
	})

	t.Run("undefined network", func(t *testing.T) {
		m := base()
		m.Services = Services{{Name: "a", Service: Service{Networks: []string{"other"}}}}
		assert.Error(t, m.Validate())
	})

	t.Run("shared container name", func(t *testing.T) {
		m := base()
		m.Services = Services{
			{Name: "a", Service: Service{ContainerName: "c"}},
			{Name: "b", Service: Service{ContainerName: "c"}},
		}
		assert.Error(t, m.Validate())
	})
}
