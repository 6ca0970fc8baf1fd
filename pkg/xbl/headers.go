/*
File: headers.go
Description: Header and host conventions for the Xbox Live first-party
services and the XAU auxiliary API. Contract versions are per endpoint and
must match the values the live services expect.
*/

package xbl

// Header names.
const (
	HeaderContractVersion = "x-xbl-contract-version"
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderAccept          = "Accept"
	HeaderAuthorization   = "Authorization"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderSignature       = "Signature"
	HeaderUserAgent       = "User-Agent"
	HeaderXAUVersion      = "x-xau-version"
	HeaderXAULanguage     = "x-xau-language"
	HeaderXAU             = "x-xau"
)

// Header values.
const (
	ContractVersion1 = "1"
	ContractVersion2 = "2"
	ContractVersion3 = "3"
	ContractVersion4 = "4"
	ContractVersion5 = "5"

	acceptEncodingValue = "gzip, deflate"
	acceptJSONValue     = "application/json"

	// xauUserAgent identifies the client to the XAU auxiliary API.
	xauUserAgent = "Meow Meow"
	xauClientTag = "xaumobileapk"

	// unlockUserAgent is the user agent the achievement update endpoint
	// expects on progressUpdate requests.
	unlockUserAgent = "XboxServicesAPI/2021.10.20211005.0 c"
)

// First-party and auxiliary hosts.
const (
	HostAchievements = "achievements.xboxlive.com"
	HostProfile      = "profile.xboxlive.com"
	HostPeopleHub    = "peoplehub.xboxlive.com"
	HostTitleHub     = "titlehub.xboxlive.com"
	HostUserStats    = "userstats.xboxlive.com"
	HostStatsWrite   = "statswrite.xboxlive.com"
	HostPresence     = "presence-heartbeat.xboxlive.com"
	HostXAUAPI       = "xau.lol"
)

// SpoofingUserAgents is the fixed allow-list of user agents selectable for
// presence heartbeats. "None" omits the header entirely.
var SpoofingUserAgents = []string{
	"None",
	"XboxLm-Console/25398.4478.amd64fre.xb_flt_2405zn.240501-1900",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:108.0) Gecko/20100101 Firefox/108.0",
	"WindowsGameBarPresenceWriter/10.0.10011.16384",
}
