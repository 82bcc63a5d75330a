package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconRobot   = "\U000F06A9"
	IconBug     = ""
	IconShield  = "\U000F0498"
	IconBolt    = ""
	IconSparkle = "\U000F0674"
	IconChat    = "\U000F0B79"
	IconCheck   = ""
	IconPackage = "\U000F03D6"
)

var (
	IconNotifyInfo    = "\U000F02FC"
	IconNotifyWarning = "\U000F0026"
	IconNotifyError   = "\U000F0159"
)
