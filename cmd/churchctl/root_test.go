package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Tree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"import"},
		{"export"},
	} {
		cmd, _, err := root.Find(path)
		assert.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestImportCmd_RequiresFile(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"import"})

	err := root.Execute()

	assert.Error(t, err)
	assert.Contains(t, out.String(), "accepts 1 arg")
}

func TestImportCmd_RejectsMatchType(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"import", "people.csv", "--match-type", "soundex"})

	assert.Error(t, root.Execute())
}
