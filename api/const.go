package api

const (
	usageMessage = "Usage: /blam @user | /blam [add/remove] @user | /blam list | " +
		"/blam whitelist @user | /blam idv [required|under18|off] | /blam idv test | /blam help"
	idvUsageMessage       = "Usage: /blam idv [required|under18|off] | /blam idv test [required|under18]"
	whitelistUsageMessage = "Usage: /blam whitelist @user | /blam whitelist remove @user | /blam whitelist channel"

	notAuthorizedMessage = "You are not authorized to use this command."
	noChannelMessage     = "Cannot determine channel."
	mentionUserMessage   = "Please mention a user, e.g., /blam @user"
)
