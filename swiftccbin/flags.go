package swiftccbin

import (
	"strconv"
	"strings"

	"shanhu.io/misc/flagutil"
	"shanhu.io/swiftcc"
)

var cmdFlags = flagutil.NewFactory("swiftcc")

// countFlag counts how many times a boolean flag is given.
type countFlag int

func (c *countFlag) String() string { return strconv.Itoa(int(*c)) }

func (c *countFlag) IsBoolFlag() bool { return true }

func (c *countFlag) Set(s string) error {
	switch s {
	case "true":
		*c++
		return nil
	case "false":
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*c = countFlag(n)
	return nil
}

// listFlag collects the values of a repeated flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type options struct {
	verbose countFlag
	vars    bool
	lib     string
	shared  string
	exe     string
	stage   string
	x       string

	config        string
	configExample string
	locals        listFlag
	objDir        string
	strict        bool
	docker        string
	dockerEnv     listFlag
	pull          bool
	journal       string
	report        string
}

func (o *options) link() *swiftcc.LinkTarget {
	return swiftcc.ChooseLink(o.shared, o.lib, o.exe)
}

func declareFlags(flags *flagutil.FlagSet, o *options) {
	flags.Var(&o.verbose, "v", "verbose output, repeat for more")
	flags.Var(&o.verbose, "verbose", "verbose output, repeat for more")
	flags.BoolVar(&o.vars, "vars", false, "dump expanded variables and exit")
	flags.StringVar(&o.lib, "lib", "", "link into static library")
	flags.StringVar(&o.shared, "shared", "", "link into shared object")
	flags.StringVar(&o.exe, "exe", "", "link into executable")
	flags.StringVar(&o.stage, "stage", "", "only run this stage number")
	flags.StringVar(
		&o.x, "x", "", "execute the command after expanding variables",
	)

	flags.StringVar(&o.config, "config", "config.txt", "config file")
	flags.StringVar(
		&o.configExample, "config_example", "config_example.txt",
		"config file to use when the config file cannot be read",
	)
	flags.Var(
		&o.locals, "local",
		"local override config file; default config.local.txt in the "+
			"work dir when it exists",
	)
	flags.StringVar(
		&o.objDir, "objdir", swiftcc.DefaultObjDir,
		"directory of object files for linking",
	)
	flags.BoolVar(
		&o.strict, "strict", false,
		"fail when a command exits with a non-zero status",
	)
	flags.StringVar(
		&o.docker, "docker", "", "run commands in a container of this image",
	)
	flags.Var(
		&o.dockerEnv, "docker_env",
		"environment variable for commands in the container, as KEY=VALUE",
	)
	flags.BoolVar(
		&o.pull, "pull", false, "pull the container image before the build",
	)
	flags.StringVar(&o.journal, "journal", "", "sqlite file to log steps in")
	flags.StringVar(&o.report, "report", "", "write a JSON report of the run")
}
