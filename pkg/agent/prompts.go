package agent

const decisionPromptTemplate = `Sen bir akıllı asistansın. Kullanıcının sorusuna en iyi şekilde yanıt verebilmek için hangi kaynakları kullanman gerektiğine karar ver.

MEVCUT ARAÇLAR:
{{.ToolsDescription}}

KULLANICI SORUSU: {{.Query}}

KARAR VER: Yukarıdaki soruya yanıt verebilmek için hangi araçları kullanman gerekiyor?

Sadece şu formatlardan birini kullan:
- "TRANSCRIPT_ONLY" - Sadece ders notları/transcript gerekli
- "BOOK_ONLY" - Sadece kitap bilgisi gerekli
- "BOTH_SOURCES" - Her iki kaynak da gerekli
- "NO_SEARCH" - Genel bilgi, arama gerekmez

Kararını tek kelime olarak ver, açıklama yapma.`

type decisionPromptData struct {
	ToolsDescription string
	Query            string
}

const groundedPromptTemplate = `Sen yardımsever bir ders asistanısın. Kullanıcının sorusunu verilen bağlam bilgileri kullanarak yanıtla.

BAĞLAM BİLGİLERİ:
Kaynak: {{.SourceInfo}}

{{.Context}}

KULLANICI SORUSU: {{.Query}}

Bu bilgileri kullanarak detaylı ve yararlı bir yanıt ver. Doğrudan ders metnini yazmak yerine bunu öğrencinin anlaması için daha detaylı anlat, yorumla ve açıkla. Ders içeriğinden bahsederken "hocanın dersinde..." şeklinde ifade et. Hangi kaynaktan bilgi aldığını belirt. Yanıtını Türkçe ver.`

const generalPromptTemplate = `Sen yardımsever bir asistansın. Genel bilginle kullanıcının sorusunu yanıtla.

KULLANICI SORUSU: {{.Query}}

Genel bilginle yardımcı bir yanıt ver. Yanıtını Türkçe ver.`

type finalPromptData struct {
	SourceInfo string
	Context    string
	Query      string
}

// User-facing fallback messages. Delivered through the normal answer
// channel, never as raw faults.
const (
	msgCannotDecide     = "Üzgünüm, karar veremiyorum."
	msgNoResponse       = "Üzgünüm, yanıt oluşturamadım."
	msgGenerationFailed = "Üzgünüm, yanıt oluşturulurken bir hata oluştu. Lütfen tekrar deneyin."
)

// source_info labels, used for answer attribution only.
const (
	sourceInfoTranscript = "Ders İçeriği (model kararı)"
	sourceInfoBook       = "Kitap (model kararı)"
	sourceInfoBoth       = "Ders İçeriği + Kitap (model kararı)"
	sourceInfoNone       = "Genel bilgi (arama yok)"
)
