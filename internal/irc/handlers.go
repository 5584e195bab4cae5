package irc

// This file contains documentation for the IRC event wiring.
// The actual implementations are split across:
// - client.go: wire decode, per-verb callbacks feeding the chat session
// - commands.go: wire encode for outbound command payloads

/*
Callback Summary:

Connection Events:
- 376/422 (onConnect): End of MOTD / MOTD missing - client is registered
  - Begins the chat session (self user, server room, current room)
  - Auto-joins configured channels

Room Lifecycle:
- JOIN (onJoin): user joined a channel
- PART (onPart): user left a channel
- KICK (onKick): user was removed from a channel
  All three dispatch into the session; the membership-list update runs
  through the pending-action queue so the system message renders first.

Messaging:
- PRIVMSG (onPrivMsg): routed as PUBMSG for channel targets, PRIVMSG
  otherwise; the private room is named after the other party
- NOTICE (onNotice): lands on the active room

State Updates:
- MODE (onMode): decoded into added/removed flag tuples; the only trigger
  for local access-level and channel-setting changes
- NICK (onNick): nickname change
- QUIT (onQuit): user disconnected
- TOPIC/332 (onTopic, onTopicReply): topic change and announce
- 353 (onNamesReply): RPL_NAMREPLY - member list with access sigils
- SILENCE/271 (onSilence, onSilenceList): server silence confirmations and
  RPL_SILELIST, dispatched into the blocked-user registry

Error Replies:
- 401/403/404/442/471/473/474/475/482 (onErrorReply): rendered as
  error-typed system messages on the room the user is looking at. These
  are server-authoritative; the client never synthesizes them.
- 433 (onNickInUse): rendered like the other error replies, then retried
  once with the configured alternate nick

Misc:
- CTCP_VERSION (onCtcpVersion): replies with the build version string
*/
