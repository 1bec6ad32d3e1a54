// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package bridge_test

import (
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/npcbridge/internal/npc"
	"github.com/holomush/npcbridge/internal/samp"
)

var _ = Describe("NPC lifecycle", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv()
	})

	AfterEach(func() {
		env.cleanup()
	})

	createNPCs := func(n int) []*npc.NPC {
		bots := make([]*npc.NPC, 0, n)
		for i := 0; i < n; i++ {
			bot, err := env.bridge.CreateNPC(string(rune('a' + i)))
			Expect(err).NotTo(HaveOccurred())
			bots = append(bots, bot)
		}
		return bots
	}

	Describe("a death observer that releases its own NPC", func() {
		var (
			bot      *npc.NPC
			released bool
			killer   *npc.Player
			killerID int
		)

		BeforeEach(func() {
			bot = createNPCs(5)[4]
			released, killer, killerID = false, nil, 0
			npc.Observe(bot, func(d *npc.Died) {
				killer, killerID = d.Killer, d.KillerID
				Expect(bot.Dispose()).To(Succeed())
				released = true
			})
		})

		It("resolves the killer when the player is live", func() {
			player, err := env.bridge.ConnectPlayer(7)
			Expect(err).NotTo(HaveOccurred())

			_, err = env.bridge.OnNativeEvent(npc.KindDied, 4, 7, 2)
			Expect(err).NotTo(HaveOccurred())

			Expect(released).To(BeTrue())
			_, ok := env.bridge.NPC(4)
			Expect(ok).To(BeFalse())
			Expect(killer).To(BeIdenticalTo(player))
		})

		It("leaves the killer absent when the player is not live", func() {
			_, err := env.bridge.OnNativeEvent(npc.KindDied, 4, 7, 2)
			Expect(err).NotTo(HaveOccurred())

			Expect(released).To(BeTrue())
			Expect(killer).To(BeNil())
			Expect(killerID).To(Equal(7))
		})

		It("lets the identifier be acquired again with no observers", func() {
			_, err := env.bridge.OnNativeEvent(npc.KindDied, 4, 7, 2)
			Expect(err).NotTo(HaveOccurred())

			again, err := env.bridge.CreateNPC("again")
			Expect(err).NotTo(HaveOccurred())
			Expect(again.ID()).To(Equal(4))
			Expect(again).NotTo(BeIdenticalTo(bot))
			Expect(again.Observers(npc.KindDied)).To(BeZero())
		})
	})

	It("returns the same handle for every lookup while live", func() {
		bot := createNPCs(1)[0]
		for range 3 {
			got, ok := env.bridge.NPC(bot.ID())
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(bot))
		}
	})

	It("still invokes later observers when an earlier one unregisters itself", func() {
		bot := createNPCs(1)[0]
		var calls []string
		npc.Observe(bot, func(*npc.Spawned) { calls = append(calls, "first") })
		var self npc.Subscription
		self = npc.Observe(bot, func(*npc.Spawned) {
			calls = append(calls, "second")
			bot.Unregister(self)
		})
		npc.Observe(bot, func(*npc.Spawned) { calls = append(calls, "third") })

		Expect(bot.Spawn(0, samp.Vec3{})).To(Succeed())
		Expect(calls).To(Equal([]string{"first", "second", "third"}))

		calls = nil
		Expect(bot.Spawn(0, samp.Vec3{})).To(Succeed())
		Expect(calls).To(Equal([]string{"first", "third"}))
	})

	It("ignores events for identifiers never acquired or already released", func() {
		dropped := env.bridge.Stats().Dropped

		propagate, err := env.bridge.OnNativeEvent(npc.KindSpawned, 9)
		Expect(err).NotTo(HaveOccurred())
		Expect(propagate).To(BeTrue())

		bot := createNPCs(1)[0]
		Expect(bot.Dispose()).To(Succeed())
		_, err = env.bridge.OnNativeEvent(npc.KindSpawned, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(env.bridge.Stats().Dropped).To(BeNumerically(">=", dropped+2))
	})

	It("reports weapon-shot vetoes in the propagate result", func() {
		bot := createNPCs(1)[0]

		propagate, err := env.bridge.OnNativeEvent(npc.KindWeaponShot, bot.ID(), 24, 1, 7, 1.0, 2.0, 3.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(propagate).To(BeTrue())

		npc.Observe(bot, func(s *npc.WeaponShot) { s.PreventDamage = true })
		propagate, err = env.bridge.OnNativeEvent(npc.KindWeaponShot, bot.ID(), 24, 1, 7, 1.0, 2.0, 3.0)
		Expect(err).NotTo(HaveOccurred())
		Expect(propagate).To(BeFalse())
		Expect(env.bridge.Stats().Vetoed).To(Equal(uint64(1)))
	})

	It("releases handles when the native layer destroys the NPC", func() {
		bot := createNPCs(1)[0]
		var destroyed bool
		npc.Observe(bot, func(*npc.Destroyed) { destroyed = true })

		Expect(env.plugin.Destroy(bot.ID())).To(BeTrue())
		Expect(destroyed).To(BeTrue())
		_, ok := env.bridge.NPC(bot.ID())
		Expect(ok).To(BeFalse())
	})
})
