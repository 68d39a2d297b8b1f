package handle

import (
	"os"
	"sync"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	abandonXPrv     = "xprv1vr88m0krv9hflst7pse90zel8qpn0vdkrg0newt9rthrqecwdafewpqe5gazunjqstgjhau042ryth7gst8w9tn3083tqllgszv2hvs8yvgqs3uycucgrqkmhkc5fxe8qevx78l4e0cn690fkmncc90svu46wjkz"
	rfcSeedHex      = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

	legacyPath = "m/44'/1815'/0'/0/0"
	legacyPub  = "008254ee8b74b30fa3a7ab1f6c34e911a16fb1bb53107920cb45f1dea5ba9f07"
	legacySig  = "7b3236218526533757c9be43c6e352d8d4d1f37f88a59f8e276d6768eca474a9" +
		"a2af446011a12b8a00152dc4693c2639f5d9fa6dd2bc12c7664ef994423d640c"
	rfcPub = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"

	txHex = "84a300818258200b2dc4fe4e1f3f2f2fc5b5b5ca0f8c3a6d9e0a1b2c3d4e5f60718293a4b5c6d7" +
		"000181825839010fdc780023d8be7c9ff3a6bdc0d8d3b263bd0cc12448c40948efbf42e55789035209" +
		"5f1cf6fd2b7d1a28e3c3cb029f48cf34ff890a28d1761a000f4240021a00029810a0f5f6"
)

func TestMain(m *testing.M) {
	backend := btclog.NewBackend(os.Stderr)
	logger := backend.Logger("HNDL")
	logger.SetLevel(btclog.LevelOff)
	UseLogger(logger)

	os.Exit(m.Run())
}

func TestTableLifecycle(t *testing.T) {
	table := NewTable()

	h := table.NewMnemonic(abandonMnemonic, legacyPath)
	require.NotEqual(t, Null, h)
	assert.Equal(t, 1, table.Len())

	pub, ok := table.PublicKey(h)
	require.True(t, ok)
	assert.Equal(t, legacyPub, pub)

	sig, ok := table.SignTransaction(h, txHex)
	require.True(t, ok)
	assert.Equal(t, legacySig, sig)

	table.Free(h)
	assert.Equal(t, 0, table.Len())

	_, ok = table.SignTransaction(h, txHex)
	assert.False(t, ok)
	_, ok = table.PublicKey(h)
	assert.False(t, ok)

	// freeing twice, or freeing null, is a no-op
	table.Free(h)
	table.Free(Null)
}

func TestTableConstructors(t *testing.T) {
	table := NewTable()

	fromRoot := table.NewBech32(abandonXPrv, legacyPath)
	require.NotEqual(t, Null, fromRoot)
	pub, ok := table.PublicKey(fromRoot)
	require.True(t, ok)
	assert.Equal(t, legacyPub, pub)

	fromCLI := table.NewCLI("5820" + rfcSeedHex)
	require.NotEqual(t, Null, fromCLI)
	pub, ok = table.PublicKey(fromCLI)
	require.True(t, ok)
	assert.Equal(t, rfcPub, pub)

	assert.NotEqual(t, fromRoot, fromCLI)
}

func TestTableCollapsesFailures(t *testing.T) {
	table := NewTable()

	assert.Equal(t, Null, table.NewMnemonic("invalid mnemonic", legacyPath))
	assert.Equal(t, Null, table.NewMnemonic(abandonMnemonic, "44'/1815'"))
	assert.Equal(t, Null, table.NewBech32("xprv1invalid", legacyPath))
	assert.Equal(t, Null, table.NewCLI("not a key"))
	assert.Equal(t, 0, table.Len())

	h := table.NewMnemonic(abandonMnemonic, legacyPath)
	require.NotEqual(t, Null, h)

	sig, ok := table.SignTransaction(h, "not hex")
	assert.False(t, ok)
	assert.Equal(t, "", sig)

	_, ok = table.SignTransaction(Null, txHex)
	assert.False(t, ok)
	_, ok = table.SignTransaction(h+1000, txHex)
	assert.False(t, ok)
}

func TestTableConcurrentUse(t *testing.T) {
	table := NewTable()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			h := table.NewMnemonic(abandonMnemonic, legacyPath)
			if !assert.NotEqual(t, Null, h) {
				return
			}
			defer table.Free(h)

			sig, ok := table.SignTransaction(h, txHex)
			assert.True(t, ok)
			assert.Equal(t, legacySig, sig)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, table.Len())
}
