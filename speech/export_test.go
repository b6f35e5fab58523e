package speech

var (
	ParseEspeakVoices = parseEspeakVoices
	ParseSayVoices    = parseSayVoices
	PickVoice         = pickVoice
)
