package discord

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// PermissionChecker resolves role-based command access. Holders of the
// guild Administrator permission always pass.
type PermissionChecker struct {
	fullAdminRoleIDs   []string
	ticketAdminRoleIDs []string
	giveawayRoleIDs    []string
}

// NewPermissionChecker builds a checker from the configured role sets.
// Full admins are implicitly included in the ticket and giveaway sets.
func NewPermissionChecker(fullAdmin, ticketAdmin, giveaway []string) *PermissionChecker {
	return &PermissionChecker{
		fullAdminRoleIDs:   fullAdmin,
		ticketAdminRoleIDs: append(slices.Clone(fullAdmin), ticketAdmin...),
		giveawayRoleIDs:    append(slices.Clone(fullAdmin), giveaway...),
	}
}

func (p *PermissionChecker) HasFullAdminAccess(member *discordgo.Member) bool {
	return hasAccess(member, p.fullAdminRoleIDs)
}

func (p *PermissionChecker) HasTicketAdminAccess(member *discordgo.Member) bool {
	return hasAccess(member, p.ticketAdminRoleIDs)
}

func (p *PermissionChecker) HasGiveawayAccess(member *discordgo.Member) bool {
	return hasAccess(member, p.giveawayRoleIDs)
}

// HasModerationAccess gates the moderation commands; it is the full-admin
// set under a separate name so the call sites read right.
func (p *PermissionChecker) HasModerationAccess(member *discordgo.Member) bool {
	return hasAccess(member, p.fullAdminRoleIDs)
}

// HasAnyRole reports whether the member carries one of the given roles,
// with no Administrator bypass.
func HasAnyRole(member *discordgo.Member, roleIDs []string) bool {
	if member == nil {
		return false
	}
	for _, roleID := range roleIDs {
		if slices.Contains(member.Roles, roleID) {
			return true
		}
	}
	return false
}

func hasAccess(member *discordgo.Member, roleIDs []string) bool {
	if member == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return HasAnyRole(member, roleIDs)
}
