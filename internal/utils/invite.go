package utils

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var urlRegex = regexp.MustCompile(`(?:https?://)?[^\s/$.?#]+\.[^\s]*`)

var inviteHosts = map[string]struct{}{
	"discord.gg":         {},
	"discord.com":        {},
	"discordapp.com":     {},
	"ptb.discord.com":    {},
	"canary.discord.com": {},
	"discord.me":         {},
	"discordapp.net":     {},
	"dsc.gg":             {},
	"invite.gg":          {},
	"discord.io":         {},
	"discord.li":         {},
	"discord.plus":       {},
	"discordservers.com": {},
	"discordbee.com":     {},
	"discordlist.space":  {},
	"top.gg":             {},
}

// ContainsInvite reports whether content links to a server invite.
// Hostnames are punycode-normalized first, so lookalike unicode domains
// resolving to an invite host are caught too.
func ContainsInvite(content string) bool {
	for _, raw := range urlRegex.FindAllString(content, -1) {
		host, path, ok := normalizeLink(raw)
		if !ok {
			continue
		}
		if _, known := inviteHosts[host]; !known {
			continue
		}
		switch host {
		case "discord.com", "discordapp.com", "ptb.discord.com", "canary.discord.com":
			if strings.HasPrefix(path, "/invite/") {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func normalizeLink(raw string) (host, path string, ok bool) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}

	host = strings.ToLower(parsed.Hostname())
	if ascii, err := idna.ToASCII(host); err == nil {
		host = ascii
	}
	host = strings.TrimPrefix(host, "www.")
	return host, parsed.EscapedPath(), true
}
