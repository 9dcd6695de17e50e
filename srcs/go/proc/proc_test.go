package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_updatedEnvFrom(t *testing.T) {
	oldEnvs := []string{
		`X=1`,
		`Y=Z=2`,
	}
	newValues := make(Envs)
	newValues[`X`] = "2"
	newEnvs := updatedEnvFrom(newValues, oldEnvs)
	assert.Len(t, newEnvs, 2)
	envMap := parseEnv(newEnvs)
	assert.Equal(t, `2`, envMap[`X`])
	assert.Equal(t, `Z=2`, envMap[`Y`])
}

func Test_Merge(t *testing.T) {
	e := Envs{"A": "1", "B": "2"}
	g := Merge(e, Envs{"B": "3"})
	g.AddIfMissing("A", "9")
	g.AddIfMissing("C", "4")
	assert.Equal(t, Envs{"A": "1", "B": "3", "C": "4"}, g)
	assert.Equal(t, "2", e["B"])
}

func Test_Script(t *testing.T) {
	p := Proc{
		Prog: "/usr/bin/simple-mpi",
		Args: []string{"-grid-size", "10"},
		Envs: Envs{"KUNGFU_SELF_SPEC": "10.0.0.1:10000", "A": "x y"},
	}
	want := "env \\\n" +
		"\tA=\"x y\" \\\n" +
		"\tKUNGFU_SELF_SPEC=\"10.0.0.1:10000\" \\\n" +
		"\t/usr/bin/simple-mpi \\\n" +
		"\t\"-grid-size\" \\\n" +
		"\t\"10\"\n"
	assert.Equal(t, want, p.Script())
}
