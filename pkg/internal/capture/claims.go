package capture

import (
	"net/http"

	"golang.org/x/text/cases"
)

// Claim is one identity assertion attached to a request by the host's
// authentication layer.
type Claim struct {
	Type  string
	Value string
}

// ClaimsFunc extracts the authenticated claims of a request. Hosts plug in
// whatever their auth middleware stored on the request context.
type ClaimsFunc func(*http.Request) []Claim

// AliasTable maps short claim names to their URI forms and back. Lookups fold
// case. The table is immutable once built.
type AliasTable struct {
	forward  map[string]string
	backward map[string]string
}

// NewAliasTable builds a table from short name to URI pairs.
func NewAliasTable(pairs map[string]string) AliasTable {
	caser := cases.Fold()
	t := AliasTable{
		forward:  make(map[string]string, len(pairs)),
		backward: make(map[string]string, len(pairs)),
	}
	for name, uri := range pairs {
		t.forward[caser.String(name)] = uri
		t.backward[caser.String(uri)] = name
	}
	return t
}

// Lookup resolves s as a short name first, then as a URI.
func (t AliasTable) Lookup(s string) (string, bool) {
	key := cases.Fold().String(s)
	if v, ok := t.forward[key]; ok {
		return v, true
	}
	v, ok := t.backward[key]
	return v, ok
}

// Len returns the number of pairs.
func (t AliasTable) Len() int { return len(t.forward) }

const (
	xmlSoapClaims  = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/"
	msClaims       = "http://schemas.microsoft.com/ws/2008/06/identity/claims/"
	xmlSoapClaims9 = "http://schemas.xmlsoap.org/ws/2009/09/identity/claims/"
)

// ClaimAliases is the well-known claim vocabulary used by WS-Federation and
// SAML identity providers.
var ClaimAliases = NewAliasTable(map[string]string{
	"Actor":                      xmlSoapClaims9 + "actor",
	"Anonymous":                  xmlSoapClaims + "anonymous",
	"Authentication":             xmlSoapClaims + "authentication",
	"AuthenticationInstant":      msClaims + "authenticationinstant",
	"AuthenticationMethod":       msClaims + "authenticationmethod",
	"AuthorizationDecision":      xmlSoapClaims + "authorizationdecision",
	"CookiePath":                 msClaims + "cookiepath",
	"Country":                    xmlSoapClaims + "country",
	"DateOfBirth":                xmlSoapClaims + "dateofbirth",
	"DenyOnlyPrimaryGroupSid":    msClaims + "denyonlyprimarygroupsid",
	"DenyOnlyPrimarySid":         msClaims + "denyonlyprimarysid",
	"DenyOnlySid":                xmlSoapClaims + "denyonlysid",
	"DenyOnlyWindowsDeviceGroup": msClaims + "denyonlywindowsdevicegroup",
	"Dns":                        xmlSoapClaims + "dns",
	"Dsa":                        msClaims + "dsa",
	"Email":                      xmlSoapClaims + "emailaddress",
	"Expiration":                 msClaims + "expiration",
	"Expired":                    msClaims + "expired",
	"Gender":                     xmlSoapClaims + "gender",
	"GivenName":                  xmlSoapClaims + "givenname",
	"GroupSid":                   msClaims + "groupsid",
	"Hash":                       xmlSoapClaims + "hash",
	"HomePhone":                  xmlSoapClaims + "homephone",
	"IsPersistent":               msClaims + "ispersistent",
	"Locality":                   xmlSoapClaims + "locality",
	"MobilePhone":                xmlSoapClaims + "mobilephone",
	"Name":                       xmlSoapClaims + "name",
	"NameIdentifier":             xmlSoapClaims + "nameidentifier",
	"OtherPhone":                 xmlSoapClaims + "otherphone",
	"PostalCode":                 xmlSoapClaims + "postalcode",
	"PrimaryGroupSid":            msClaims + "primarygroupsid",
	"PrimarySid":                 msClaims + "primarysid",
	"Role":                       msClaims + "role",
	"Rsa":                        xmlSoapClaims + "rsa",
	"SerialNumber":               msClaims + "serialnumber",
	"Sid":                        xmlSoapClaims + "sid",
	"Spn":                        xmlSoapClaims + "spn",
	"StateOrProvince":            xmlSoapClaims + "stateorprovince",
	"StreetAddress":              xmlSoapClaims + "streetaddress",
	"Surname":                    xmlSoapClaims + "surname",
	"System":                     xmlSoapClaims + "system",
	"Thumbprint":                 xmlSoapClaims + "thumbprint",
	"Upn":                        xmlSoapClaims + "upn",
	"Uri":                        xmlSoapClaims + "uri",
	"UserData":                   msClaims + "userdata",
	"Version":                    msClaims + "version",
	"Webpage":                    xmlSoapClaims + "webpage",
	"WindowsAccountName":         msClaims + "windowsaccountname",
	"WindowsDeviceClaim":         msClaims + "windowsdeviceclaim",
	"WindowsDeviceGroup":         msClaims + "windowsdevicegroup",
	"WindowsFqbnVersion":         msClaims + "windowsfqbnversion",
	"WindowsSubAuthority":        msClaims + "windowssubauthority",
	"WindowsUserClaim":           msClaims + "windowsuserclaim",
	"X500DistinguishedName":      xmlSoapClaims + "x500distinguishedname",
})
