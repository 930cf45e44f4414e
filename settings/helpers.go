package settings

import (
	"net/url"

	"github.com/ordishs/gocore"
)

func getString(key, defaultValue string) string {
	value, found := gocore.Config().Get(key)
	if !found {
		return defaultValue
	}

	return value
}

func getInt(key string, defaultValue int) int {
	value, found := gocore.Config().GetInt(key)
	if !found {
		return defaultValue
	}

	return value
}

// getURL returns nil when the key is unset and defaultValue is empty.
func getURL(key, defaultValue string) *url.URL {
	value, err, found := gocore.Config().GetURL(key, defaultValue)
	if err != nil || (!found && defaultValue == "") {
		return nil
	}

	return value
}

func getBool(key string, defaultValue bool) bool {
	return gocore.Config().GetBool(key, defaultValue)
}
