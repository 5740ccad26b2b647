package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://muurk.github.io/ledlink/

// Repository is the project home
const Repository = "https://github.com/muurk/ledlink"

// ProtocolReference documents the JSON commands controllers accept on UDP
// port 8888, including discover replies and config fields.
const ProtocolReference = "https://muurk.github.io/ledlink/reference/protocol/"

// BridgeGuide covers the websocket bridge request format and metrics.
const BridgeGuide = "https://muurk.github.io/ledlink/guides/bridge/"

// TroubleshootingGuide provides solutions to common network issues such as
// blocked broadcasts, firewalls and controllers on another subnet.
const TroubleshootingGuide = "https://muurk.github.io/ledlink/troubleshooting/"
