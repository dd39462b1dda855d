package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/idbridge/pkg/config"
	"github.com/ajitpratap0/idbridge/pkg/connector/core"
	"github.com/ajitpratap0/idbridge/pkg/errors"
	"github.com/ajitpratap0/idbridge/pkg/testutil"
)

func fakeFactory(name string) Factory {
	return func(opts Options) (core.Connector, error) {
		return testutil.NewFakeConnector(name), nil
	}
}

func validOptions() Options {
	return Options{Config: testutil.TokenConfig("https://cmdb.example.com/webservices/rest.php")}
}

func TestRegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fake", fakeFactory("fake")))

	c, err := r.Create("fake", validOptions())
	require.NoError(t, err)
	assert.Equal(t, "fake", c.Name())
	assert.Contains(t, r.ListAvailable(), "fake")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fake", fakeFactory("fake")))

	err := r.Register("fake", fakeFactory("fake"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestRegisterRejectsNilFactory(t *testing.T) {
	r := NewRegistry()

	err := r.Register("broken", nil)
	require.Error(t, err)
	assert.Empty(t, r.ListAvailable())
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register("", fakeFactory("")))
}

func TestCreateUnknownSystem(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fake", fakeFactory("fake")))

	_, err := r.Create("sap", validOptions())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnector))
	assert.Contains(t, err.Error(), "sap")
	assert.Contains(t, err.Error(), "unknown system")
}

func TestCreateFactoryFailure(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("failing", func(Options) (core.Connector, error) {
		return nil, errors.Config("either auth_token or both username and password must be provided", nil)
	}))

	_, err := r.Create("failing", validOptions())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnector))
	assert.Contains(t, err.Error(), "failing")
	assert.Contains(t, err.Error(), "auth_token")

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "failing", e.System)
}

func TestCreateRequiresConfig(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fake", fakeFactory("fake")))

	_, err := r.Create("fake", Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnector))
}

func TestCreatePassesOptions(t *testing.T) {
	r := NewRegistry()
	var got Options
	require.NoError(t, r.Register("probe", func(opts Options) (core.Connector, error) {
		got = opts
		return testutil.NewFakeConnector("probe"), nil
	}))

	cfg := config.NewConfig()
	cfg.BaseURL = "https://cmdb.example.com"
	_, err := r.Create("probe", Options{Config: cfg, Debug: true})
	require.NoError(t, err)
	assert.Same(t, cfg, got.Config)
	assert.True(t, got.Debug)
	assert.NotNil(t, got.Log())
}

func TestListAvailableSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"servicenow", "itop", "fake"} {
		require.NoError(t, r.Register(name, fakeFactory(name)))
	}

	assert.Equal(t, []string{"fake", "itop", "servicenow"}, r.ListAvailable())
}

func TestCatalog(t *testing.T) {
	c := NewConnectorCatalog()
	require.NoError(t, c.Register(&core.ConnectorInfo{Name: "b"}))
	require.NoError(t, c.Register(&core.ConnectorInfo{Name: "a"}))
	assert.Error(t, c.Register(&core.ConnectorInfo{Name: "a"}))
	assert.Error(t, c.Register(nil))

	info, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", info.Name)

	_, err = c.Get("missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func ExampleRegistry_ListAvailable() {
	r := NewRegistry()
	_ = r.Register("servicenow", fakeFactory("servicenow"))
	_ = r.Register("itop", fakeFactory("itop"))

	fmt.Println(r.ListAvailable())
	// Output: [itop servicenow]
}
