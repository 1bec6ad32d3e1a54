// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package samp

import "strconv"

// Weapon identifies a weapon model.
type Weapon int

// Weapons.
const (
	WeaponFist           Weapon = 0
	WeaponBrassKnuckles  Weapon = 1
	WeaponGolfClub       Weapon = 2
	WeaponNightStick     Weapon = 3
	WeaponKnife          Weapon = 4
	WeaponBat            Weapon = 5
	WeaponShovel         Weapon = 6
	WeaponPoolStick      Weapon = 7
	WeaponKatana         Weapon = 8
	WeaponChainsaw       Weapon = 9
	WeaponDildo          Weapon = 10
	WeaponDildo2         Weapon = 11
	WeaponVibrator       Weapon = 12
	WeaponVibrator2      Weapon = 13
	WeaponFlower         Weapon = 14
	WeaponCane           Weapon = 15
	WeaponGrenade        Weapon = 16
	WeaponTearGas        Weapon = 17
	WeaponMolotov        Weapon = 18
	WeaponColt45         Weapon = 22
	WeaponSilenced       Weapon = 23
	WeaponDeagle         Weapon = 24
	WeaponShotgun        Weapon = 25
	WeaponSawedoff       Weapon = 26
	WeaponCombatShotgun  Weapon = 27
	WeaponUzi            Weapon = 28
	WeaponMP5            Weapon = 29
	WeaponAK47           Weapon = 30
	WeaponM4             Weapon = 31
	WeaponTec9           Weapon = 32
	WeaponRifle          Weapon = 33
	WeaponSniper         Weapon = 34
	WeaponRocketLauncher Weapon = 35
	WeaponHeatSeeker     Weapon = 36
	WeaponFlamethrower   Weapon = 37
	WeaponMinigun        Weapon = 38
	WeaponSatchel        Weapon = 39
	WeaponBomb           Weapon = 40
	WeaponSprayCan       Weapon = 41
	WeaponFireExtinguish Weapon = 42
	WeaponCamera         Weapon = 43
	WeaponNightVision    Weapon = 44
	WeaponThermalVision  Weapon = 45
	WeaponParachute      Weapon = 46
	WeaponVehicle        Weapon = 49
	WeaponHeliblades     Weapon = 50
	WeaponExplosion      Weapon = 51
	WeaponDrown          Weapon = 53
	WeaponCollision      Weapon = 54
)

var weaponNames = map[Weapon]string{
	WeaponFist: "fist", WeaponBrassKnuckles: "brass_knuckles", WeaponGolfClub: "golf_club",
	WeaponNightStick: "night_stick", WeaponKnife: "knife", WeaponBat: "bat", WeaponShovel: "shovel",
	WeaponPoolStick: "pool_stick", WeaponKatana: "katana", WeaponChainsaw: "chainsaw",
	WeaponDildo: "dildo", WeaponDildo2: "dildo2", WeaponVibrator: "vibrator", WeaponVibrator2: "vibrator2",
	WeaponFlower: "flower", WeaponCane: "cane", WeaponGrenade: "grenade", WeaponTearGas: "tear_gas",
	WeaponMolotov: "molotov", WeaponColt45: "colt45", WeaponSilenced: "silenced", WeaponDeagle: "deagle",
	WeaponShotgun: "shotgun", WeaponSawedoff: "sawedoff", WeaponCombatShotgun: "combat_shotgun",
	WeaponUzi: "uzi", WeaponMP5: "mp5", WeaponAK47: "ak47", WeaponM4: "m4", WeaponTec9: "tec9",
	WeaponRifle: "rifle", WeaponSniper: "sniper", WeaponRocketLauncher: "rocket_launcher",
	WeaponHeatSeeker: "heat_seeker", WeaponFlamethrower: "flamethrower", WeaponMinigun: "minigun",
	WeaponSatchel: "satchel", WeaponBomb: "bomb", WeaponSprayCan: "spray_can",
	WeaponFireExtinguish: "fire_extinguisher", WeaponCamera: "camera", WeaponNightVision: "night_vision",
	WeaponThermalVision: "thermal_vision", WeaponParachute: "parachute", WeaponVehicle: "vehicle",
	WeaponHeliblades: "heliblades", WeaponExplosion: "explosion", WeaponDrown: "drown",
	WeaponCollision: "collision",
}

// Valid reports whether w is a known weapon.
func (w Weapon) Valid() bool {
	_, ok := weaponNames[w]
	return ok
}

func (w Weapon) String() string {
	if name, ok := weaponNames[w]; ok {
		return name
	}
	return "weapon(" + strconv.Itoa(int(w)) + ")"
}

// BodyPart identifies where a hit landed.
type BodyPart int

// Body parts.
const (
	BodyPartTorso    BodyPart = 3
	BodyPartGroin    BodyPart = 4
	BodyPartLeftArm  BodyPart = 5
	BodyPartRightArm BodyPart = 6
	BodyPartLeftLeg  BodyPart = 7
	BodyPartRightLeg BodyPart = 8
	BodyPartHead     BodyPart = 9
)

var bodyPartNames = [...]string{"torso", "groin", "left_arm", "right_arm", "left_leg", "right_leg", "head"}

// Valid reports whether b is a known body part.
func (b BodyPart) Valid() bool { return b >= BodyPartTorso && b <= BodyPartHead }

func (b BodyPart) String() string {
	if b.Valid() {
		return bodyPartNames[b-BodyPartTorso]
	}
	return "body_part(" + strconv.Itoa(int(b)) + ")"
}

// BulletHitType identifies what a shot hit.
type BulletHitType int

// Bullet hit types.
const (
	BulletHitNone         BulletHitType = 0
	BulletHitPlayer       BulletHitType = 1
	BulletHitVehicle      BulletHitType = 2
	BulletHitObject       BulletHitType = 3
	BulletHitPlayerObject BulletHitType = 4
)

var bulletHitNames = [...]string{"none", "player", "vehicle", "object", "player_object"}

// Valid reports whether h is a known hit type.
func (h BulletHitType) Valid() bool { return h >= BulletHitNone && h <= BulletHitPlayerObject }

func (h BulletHitType) String() string {
	if h.Valid() {
		return bulletHitNames[h]
	}
	return "bullet_hit(" + strconv.Itoa(int(h)) + ")"
}

// WeaponState is the reload/ammo state of the held weapon.
type WeaponState int

// Weapon states.
const (
	WeaponStateUnknown     WeaponState = -1
	WeaponStateNoBullets   WeaponState = 0
	WeaponStateLastBullet  WeaponState = 1
	WeaponStateMoreBullets WeaponState = 2
	WeaponStateReloading   WeaponState = 3
)

var weaponStateNames = [...]string{"unknown", "no_bullets", "last_bullet", "more_bullets", "reloading"}

// Valid reports whether s is a known weapon state.
func (s WeaponState) Valid() bool { return s >= WeaponStateUnknown && s <= WeaponStateReloading }

func (s WeaponState) String() string {
	if s.Valid() {
		return weaponStateNames[s+1]
	}
	return "weapon_state(" + strconv.Itoa(int(s)) + ")"
}

// MoveType selects the movement animation for go-to style commands.
type MoveType int

// Move types.
const (
	MoveTypeAuto   MoveType = -1
	MoveTypeWalk   MoveType = 0
	MoveTypeRun    MoveType = 1
	MoveTypeSprint MoveType = 2
	MoveTypeDrive  MoveType = 3
)

// Valid reports whether m is a known move type.
func (m MoveType) Valid() bool { return m >= MoveTypeAuto && m <= MoveTypeDrive }

// MoveSpeedAuto lets the plugin pick a speed from the move type.
const MoveSpeedAuto float32 = -1

// NodeType is the kind of traffic a node file describes.
type NodeType int

// Node types.
const (
	NodeTypeNone    NodeType = 0
	NodeTypePed     NodeType = 1
	NodeTypeVehicle NodeType = 2
	NodeTypeBoat    NodeType = 3
)

// Valid reports whether n is a known node type.
func (n NodeType) Valid() bool { return n >= NodeTypeNone && n <= NodeTypeBoat }

// SpecialAction is a player special action.
type SpecialAction int

// Special actions.
const (
	SpecialActionNone          SpecialAction = 0
	SpecialActionDuck          SpecialAction = 1
	SpecialActionUseJetpack    SpecialAction = 2
	SpecialActionEnterVehicle  SpecialAction = 3
	SpecialActionExitVehicle   SpecialAction = 4
	SpecialActionDance1        SpecialAction = 5
	SpecialActionDance2        SpecialAction = 6
	SpecialActionDance3        SpecialAction = 7
	SpecialActionDance4        SpecialAction = 8
	SpecialActionHandsUp       SpecialAction = 10
	SpecialActionUseCellphone  SpecialAction = 11
	SpecialActionSitting       SpecialAction = 12
	SpecialActionStopCellphone SpecialAction = 13
	SpecialActionDrinkBeer     SpecialAction = 20
	SpecialActionSmokeCiggy    SpecialAction = 21
	SpecialActionDrinkWine     SpecialAction = 22
	SpecialActionDrinkSprunk   SpecialAction = 23
	SpecialActionCuffed        SpecialAction = 24
	SpecialActionCarry         SpecialAction = 25
	SpecialActionPissing       SpecialAction = 68
)

// Valid reports whether a is a known special action.
func (a SpecialAction) Valid() bool {
	switch {
	case a >= SpecialActionNone && a <= SpecialActionDance4:
		return true
	case a >= SpecialActionHandsUp && a <= SpecialActionStopCellphone:
		return true
	case a >= SpecialActionDrinkBeer && a <= SpecialActionCarry:
		return true
	case a == SpecialActionPissing:
		return true
	}
	return false
}

// FightStyle is a melee fighting style.
type FightStyle int

// Fight styles.
const (
	FightStyleNormal   FightStyle = 4
	FightStyleBoxing   FightStyle = 5
	FightStyleKungFu   FightStyle = 6
	FightStyleKneeHead FightStyle = 7
	FightStyleGrabKick FightStyle = 15
	FightStyleElbow    FightStyle = 16
)

// Valid reports whether f is a known fight style.
func (f FightStyle) Valid() bool {
	return (f >= FightStyleNormal && f <= FightStyleKneeHead) || f == FightStyleGrabKick || f == FightStyleElbow
}

// WeaponSkill is a weapon skill category.
type WeaponSkill int

// Weapon skills.
const (
	WeaponSkillPistol WeaponSkill = iota
	WeaponSkillPistolSilenced
	WeaponSkillDesertEagle
	WeaponSkillShotgun
	WeaponSkillSawnoffShotgun
	WeaponSkillSpas12Shotgun
	WeaponSkillMicroUzi
	WeaponSkillMP5
	WeaponSkillAK47
	WeaponSkillM4
	WeaponSkillSniperRifle
)

// Valid reports whether s is a known weapon skill.
func (s WeaponSkill) Valid() bool { return s >= WeaponSkillPistol && s <= WeaponSkillSniperRifle }
