package cmd

import (
	"context"
	"math/big"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdutil "github.com/tranvictor/nns/cmd/util"
	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/namehash"
	"github.com/tranvictor/nns/networks"
	"github.com/tranvictor/nns/nns"
	"github.com/tranvictor/nns/ui"
	"github.com/tranvictor/nns/util/account"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		config.Owner = ""
		config.PrivateKey = ""
		config.Avatar = ""
		config.Twitter = ""
		config.Telegram = ""
		config.MaxFee = ""
	})
}

func TestHashName(t *testing.T) {
	info := hashName("alice.nexus")
	assert.Equal(t, namehash.NameHash("alice.nexus").Hex(), info.Node)
	assert.Equal(t, namehash.LabelHash("alice").Hex(), info.LabelHash)

	info = hashName("nexus")
	assert.Equal(t, namehash.LabelHash("nexus").Hex(), info.LabelHash)
}

func TestResolveOwner(t *testing.T) {
	resetFlags(t)
	acc, err := account.NewPrivateKeyAccount(testKey)
	require.NoError(t, err)

	owner, err := resolveOwner(acc)
	require.NoError(t, err)
	assert.Equal(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", owner)

	config.Owner = "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23"
	owner, err = resolveOwner(nil)
	require.NoError(t, err)
	assert.Equal(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", owner)

	config.Owner = "alice"
	_, err = resolveOwner(acc)
	assert.ErrorIs(t, err, nns.ErrInvalidAddress)

	config.Owner = ""
	_, err = resolveOwner(nil)
	assert.Error(t, err)
}

func TestUpdateRequestOnlyChangedFlags(t *testing.T) {
	resetFlags(t)
	c := &cobra.Command{Use: "update"}
	c.Flags().StringVar(&config.Avatar, "avatar", "", "")
	c.Flags().StringVar(&config.Twitter, "twitter", "", "")
	c.Flags().StringVar(&config.Telegram, "telegram", "", "")
	require.NoError(t, c.Flags().Parse([]string{"--twitter", "alice_x", "--telegram", ""}))

	req := updateRequest(c, "alice", "0xabc")
	assert.Nil(t, req.Avatar)
	require.NotNil(t, req.Twitter)
	assert.Equal(t, "alice_x", *req.Twitter)
	require.NotNil(t, req.Telegram)
	assert.Equal(t, "", *req.Telegram)
}

func TestAppContextRoundTrip(t *testing.T) {
	c := &cobra.Command{Use: "x"}
	_, err := appContext(c)
	assert.Error(t, err)

	rec := ui.NewRecordingUI()
	c.SetContext(cmdutil.WithAppContext(context.Background(), &cmdutil.AppContext{UI: rec}))
	ac, err := appContext(c)
	require.NoError(t, err)
	assert.Same(t, rec, ac.UI)
}

func TestPrintDomainInfoUnregistered(t *testing.T) {
	rec := ui.NewRecordingUI()
	printDomainInfo(rec, &nns.DomainInfo{Name: "bob.nexus", Node: namehash.NameHash("bob.nexus")})
	assert.True(t, rec.HasMessage("bob.nexus is not registered"))
	assert.Equal(t, []string{"Node: " + namehash.NameHash("bob.nexus").Hex()}, rec.Messages("KeyValue"))
}

func TestPrintProfileShowsUnsetRecords(t *testing.T) {
	rec := ui.NewRecordingUI()
	twitter := "alice_x"
	printProfile(rec, &nns.Profile{Name: "alice.nexus", Twitter: &twitter})
	assert.Contains(t, rec.Messages("KeyValue"), "Twitter: alice_x")
	assert.Contains(t, rec.Messages("KeyValue"), "Avatar: -")
	assert.Contains(t, rec.Messages("KeyValue"), "Expires: -")
}

func TestCheckMaxFee(t *testing.T) {
	resetFlags(t)
	fee := big.NewInt(500000000000000000)
	assert.NoError(t, checkMaxFee(networks.NexusTestnet, fee))

	config.MaxFee = "0.5"
	assert.NoError(t, checkMaxFee(networks.NexusTestnet, fee))

	config.MaxFee = "0.1"
	err := checkMaxFee(networks.NexusTestnet, fee)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0.5 NEX")

	config.MaxFee = "lots"
	assert.Error(t, checkMaxFee(networks.NexusTestnet, fee))
}
