package compose

// Options parameterize synthesis. DefaultOptions reproduces the deployed cluster.
type Options struct {
	Network       string
	NetworkDriver string
	// LogDir is the host directory holding one log file per service.
	LogDir     string
	Node       NodeTemplate
	Dependents []DependentTemplate
}

// NodeTemplate describes what every storage node service has in common.
type NodeTemplate struct {
	BuildContext string
	Dockerfile   string
	// SnapshotDir is relative to both the build context and the working dir.
	SnapshotDir string
	WorkingDir  string
	NofileLimit int
	// Secrets are passed through unresolved as ${NAME}.
	Secrets []string
}

// DependentTemplate describes a service that needs every storage node.
type DependentTemplate struct {
	Name         string
	BuildContext string
	Dockerfile   string
	Image        string
	WorkingDir   string
	Port         int
	Command      string
	Restart      string
	Secrets      []string
}

const (
	// EndpointsEnv lists the storage node endpoints for dependent services.
	EndpointsEnv = "REDIS_NODE_HOSTS"
	// LogFileEnv points a service at its log file.
	LogFileEnv = "LOG_FILE"
	// SnapshotEnv points a storage node at its snapshot.
	SnapshotEnv = "RDB_PATH"
)

func DefaultOptions() Options {
	return Options{
		Network:       "redinternanodos",
		NetworkDriver: "bridge",
		LogDir:        "logs",
		Node: NodeTemplate{
			BuildContext: ".",
			Dockerfile:   "./redis_server/NodeDockerfile",
			SnapshotDir:  "redis_server/rdb_files",
			WorkingDir:   "/app/",
			NofileLimit:  65536,
			Secrets:      []string{"ENCRYPTION_KEY"},
		},
		Dependents: []DependentTemplate{
			{
				Name:         "llm_microservice",
				BuildContext: ".",
				Dockerfile:   "llm_microservice/Dockerfile",
				Image:        "llm_microservice",
				WorkingDir:   "/app",
				Port:         4030,
				Command:      "/app/llm_microservice_bin",
				Restart:      "on-failure",
				Secrets:      []string{"GEMINI_API_KEY"},
			},
			{
				Name:         "microservice",
				BuildContext: ".",
				Dockerfile:   "microservice/Dockerfile",
				Image:        "microservice",
				WorkingDir:   "/app",
				Port:         5000,
				Command:      "/app/microservice_bin",
				Restart:      "on-failure",
			},
		},
	}
}
