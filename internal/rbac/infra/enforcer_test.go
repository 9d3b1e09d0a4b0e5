package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const flatModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

func TestNewEnforcerFromString(t *testing.T) {
	e, err := NewEnforcerFromString(flatModel)
	assert.NoError(t, err)

	_, err = e.AddPolicy("member", "report", "read")
	assert.NoError(t, err)

	ok, err := e.Enforce("member", "report", "read")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Enforce("member", "report", "export")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNewEnforcer_MissingFiles(t *testing.T) {
	_, err := NewEnforcer("does/not/exist.conf", "does/not/exist.csv")
	assert.Error(t, err)
}
