// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package bridge_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/npcbridge/internal/bridge"
	"github.com/holomush/npcbridge/internal/samp"
	"github.com/holomush/npcbridge/internal/script"
	"github.com/holomush/npcbridge/internal/trace"
)

const guardManifest = `
name: guard
version: 1.2.0
requires: "^1.0.0"
events:
  - combat.weapon_shot
  - lifecycle.*
entry: main.lua
`

// The guard refuses to hurt players and walks home when it spawns.
const guardScript = `
local home = {x = 10, y = 0, z = 0}

function on_notification(t)
  if t.kind == "combat.weapon_shot" then
    t.prevent = t.hit_type == "player"
  elseif t.kind == "lifecycle.spawned" then
    npc.go_to(t.npc, home.x, home.y, home.z)
  elseif t.kind == "lifecycle.died" then
    npc.log("info", "guard down killer_id=" .. t.killer_id)
  end
end
`

const patrolTrace = `# guard patrol
connect 7
create "guard"
spawn 0 61 0 0 0
step
FCNPC_OnWeaponShot 0 24 1 7 1.0 2.0 3.0
FCNPC_OnWeaponShot 0 24 2 400 1.0 2.0 3.0
FCNPC_OnDeath 0 7 24
destroy 0
`

func writeScripts(root string) {
	dir := filepath.Join(root, "guard")
	Expect(os.MkdirAll(dir, 0o755)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, script.ManifestFile), []byte(guardManifest), 0o600)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "main.lua"), []byte(guardScript), 0o600)).To(Succeed())
}

var _ = Describe("Scripted replay", func() {
	var (
		env  *testEnv
		ctx  context.Context
		root string
	)

	BeforeEach(func() {
		env = newTestEnv()
		ctx = context.Background()
		root = GinkgoT().TempDir()
		writeScripts(root)

		found, err := script.NewManager(root,
			script.WithAPIVersion(bridge.APIVersion),
			script.WithLogger(env.logger),
		).Discover(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.host.LoadAll(ctx, found)).To(Equal(1))
	})

	AfterEach(func() {
		env.cleanup()
	})

	It("runs discovered scripts against every replayed callback", func() {
		tr, err := trace.ParseString("patrol.trace", patrolTrace)
		Expect(err).NotTo(HaveOccurred())

		res, err := trace.Replay(ctx, env.bridge, tr, trace.WithStepper(env.plugin), trace.WithLogger(env.logger))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Statements).To(Equal(8))

		vetoed := res.Vetoed()
		Expect(vetoed).To(HaveLen(1))
		Expect(vetoed[0].Line).To(Equal(6))
		Expect(env.bridge.Stats().Vetoed).To(Equal(uint64(1)))

		Expect(env.logs.String()).To(ContainSubstring("guard down killer_id=7"))
		_, ok := env.bridge.NPC(0)
		Expect(ok).To(BeFalse())
	})

	It("moves the NPC from its spawn handler", func() {
		bot, err := env.bridge.CreateNPC("walker")
		Expect(err).NotTo(HaveOccurred())
		Expect(bot.Spawn(0, samp.Vec3{})).To(Succeed())

		moving, err := bot.IsMoving()
		Expect(err).NotTo(HaveOccurred())
		Expect(moving).To(BeTrue())

		env.plugin.Step()
		pos, err := bot.Position()
		Expect(err).NotTo(HaveOccurred())
		Expect(pos.X).To(BeNumerically("==", 10))
	})
})

var _ = Describe("npcbridge replay command", func() {
	It("replays a trace with scripts and prints the vetoes", func() {
		root := GinkgoT().TempDir()
		writeScripts(root)
		tracePath := filepath.Join(GinkgoT().TempDir(), "patrol.trace")
		Expect(os.WriteFile(tracePath, []byte(patrolTrace), 0o600)).To(Succeed())

		cmd := exec.CommandContext(context.Background(), "go", "run", ".",
			"replay", "--trace", tracePath, "--scripts", root, "--log-format", "text")
		cmd.Dir = "../../../cmd/npcbridge"
		cmd.Env = append(cmd.Environ(), "XDG_CONFIG_HOME="+GinkgoT().TempDir())

		output, err := cmd.CombinedOutput()
		Expect(err).NotTo(HaveOccurred(), "replay command failed: %s", string(output))
		Expect(string(output)).To(ContainSubstring("STATEMENTS  8"))
		Expect(string(output)).To(ContainSubstring("line 6"))
	})
})
