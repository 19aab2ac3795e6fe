package console

import "strings"

// The console escapes address separators twice: "%255C" decodes to "%5C"
// and then to a backslash, followed by the separator code.
const (
	addressPrefix    = "%255C0"
	addressSeparator = "%255C2"
)

// ConnectURL builds the console URL that connects to a management endpoint
// and opens the place identified by fragment.
func ConnectURL(consoleURL, endpoint, fragment string) string {
	return consoleURL + "?connect=" + endpoint + "#" + fragment
}

// GenericSubsystemFragment is the fragment of the generic subsystem page for
// a resource address.
func GenericSubsystemFragment(address []string) string {
	return "generic-subsystem;address=" + addressPrefix + strings.Join(address, addressSeparator)
}

// GenericSubsystemURL combines ConnectURL and GenericSubsystemFragment.
func GenericSubsystemURL(consoleURL, endpoint string, address []string) string {
	return ConnectURL(consoleURL, endpoint, GenericSubsystemFragment(address))
}
