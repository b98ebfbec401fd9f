package i18n

import "github.com/umurima-rw/umurima/internal/domain"

// Message keys used across the dialog. The language prompt itself is shown
// before any locale is chosen, so it is trilingual by construction and only
// present in the English catalog.
const (
	KeyLanguagePrompt = "language.prompt"

	KeyMainHeader   = "menu.main.header"
	KeyMainRegister = "menu.main.register"
	KeyMainUpdate   = "menu.main.update"
	KeyMainRequest  = "menu.main.request"
	KeyMainTips     = "menu.main.tips"
	KeyMainWeather  = "menu.main.weather"
	KeyMainStatus   = "menu.main.status"
	KeyMainLanguage = "menu.main.language"
	KeyMainExit     = "menu.main.exit"

	KeyInvalidOption = "error.invalid_option"
	KeyGenericError  = "error.generic"
	KeyNameLength    = "error.name_length"
	KeyDescLength    = "error.description_length"

	KeyRegisterRequired = "ack.register_required"
	KeyAckFooter        = "ack.footer"

	KeyNamePrompt     = "register.name.prompt"
	KeyProvincePrompt = "register.province.prompt"
	KeyDistrictPrompt = "register.district.prompt"
	KeySectorPrompt   = "register.sector.prompt"
	KeyCellPrompt     = "register.cell.prompt"
	KeyBackOption     = "register.back"
	KeyRegisterDone   = "register.success"
	KeyUpdateDone     = "update.success"
	KeyUpdateMenu     = "update.menu"

	KeyServiceTypePrompt = "request.type.prompt"
	KeyDescriptionPrompt = "request.description.prompt"
	KeyRequestAssigned   = "request.assigned"
	KeyRequestNoMatch    = "request.no_match"

	KeyTipsMenu = "tips.menu"
	KeyTip1     = "tips.1"
	KeyTip2     = "tips.2"
	KeyTip3     = "tips.3"
	KeyTip4     = "tips.4"

	KeyStatusNone   = "status.none"
	KeyStatusHeader = "status.header"
	KeyStatusLine   = "status.line"

	KeyWeatherUnavailable = "weather.unavailable"
	KeyGoodbye            = "exit.goodbye"
)

// StatusKey returns the catalog key for a request status label.
func StatusKey(s domain.RequestStatus) string {
	return "status.label." + string(s)
}

var catalog = map[domain.Language]map[string]string{
	domain.LangEnglish: {
		KeyLanguagePrompt: "Welcome to Umurima / Murakaza neza\n1. English\n2. Ikinyarwanda\n3. Kiswahili",

		KeyMainHeader:   "Umurima - Farmer Services",
		KeyMainRegister: "Register as a farmer",
		KeyMainUpdate:   "Update my details",
		KeyMainRequest:  "Request expert help",
		KeyMainTips:     "Farming tips",
		KeyMainWeather:  "Weather update",
		KeyMainStatus:   "My requests",
		KeyMainLanguage: "Change language",
		KeyMainExit:     "Exit",

		KeyInvalidOption: "Invalid option, try again.",
		KeyGenericError:  "Sorry, something went wrong. Please try again later.",
		KeyNameLength:    "Name must be between 1 and 50 characters.",
		KeyDescLength:    "Description must be between 1 and 200 characters.",

		KeyRegisterRequired: "You need to register first to use this service.",
		KeyAckFooter:        "0. Main menu",

		KeyNamePrompt:     "Enter your full name:\n0. Back",
		KeyProvincePrompt: "Select your province:\n%s\n0. Back",
		KeyDistrictPrompt: "Select your district:\n%s\n0. Back",
		KeySectorPrompt:   "Select your sector:\n%s\n0. Back",
		KeyCellPrompt:     "Select your cell:\n%s\n0. Back",
		KeyRegisterDone:   "Thank you %s! You are now registered in %s.",
		KeyUpdateDone:     "Your details have been updated.",
		KeyUpdateMenu:     "What would you like to update?\n1. Name\n2. Location\n0. Main menu",

		KeyServiceTypePrompt: "What help do you need?\n1. Agronomy (crops)\n2. Veterinary (livestock)\n0. Back",
		KeyDescriptionPrompt: "Briefly describe your problem:\n0. Back",
		KeyRequestAssigned:   "Request received. %s will contact you on %s.",
		KeyRequestNoMatch:    "Request received. No expert is available in your area yet; we will contact you as soon as one is.",

		KeyTipsMenu: "Farming tips:\n1. Soil preparation\n2. Planting seasons\n3. Pest control\n4. Livestock care\n0. Main menu",
		KeyTip1:     "Test your soil before planting and add organic compost to improve fertility.",
		KeyTip2:     "Season A runs Sep-Feb and Season B Mar-Jul. Plant at the start of the rains.",
		KeyTip3:     "Scout your fields weekly. Remove infested plants early and rotate crops.",
		KeyTip4:     "Vaccinate livestock on schedule and provide clean water daily.",

		KeyStatusNone:   "You have no service requests yet.",
		KeyStatusHeader: "Your recent requests:",
		KeyStatusLine:   "%d. %s - %s",

		KeyWeatherUnavailable: "Weather information is not available right now. Please try again later.",
		KeyGoodbye:            "Thank you for using Umurima. Goodbye!",

		"status.label.pending":     "Pending",
		"status.label.assigned":    "Expert assigned",
		"status.label.no_match":    "Waiting for expert",
		"status.label.in_progress": "In progress",
		"status.label.completed":   "Completed",
		"status.label.cancelled":   "Cancelled",

		"service.label.agronomy":   "Agronomy",
		"service.label.veterinary": "Veterinary",
	},

	domain.LangKinyarwanda: {
		KeyMainHeader:   "Umurima - Serivisi z'abahinzi",
		KeyMainRegister: "Iyandikishe nk'umuhinzi",
		KeyMainUpdate:   "Hindura amakuru yanjye",
		KeyMainRequest:  "Saba ubufasha bw'impuguke",
		KeyMainTips:     "Inama z'ubuhinzi",
		KeyMainWeather:  "Iteganyagihe",
		KeyMainStatus:   "Ibyo nasabye",
		KeyMainLanguage: "Hindura ururimi",
		KeyMainExit:     "Gusohoka",

		KeyInvalidOption: "Igisubizo ntabwo ari cyo, gerageza nanone.",
		KeyGenericError:  "Habayeho ikibazo. Ongera ugerageze nyuma.",
		KeyNameLength:    "Izina rigomba kuba riri hagati y'inyuguti 1 na 50.",
		KeyDescLength:    "Ibisobanuro bigomba kuba biri hagati y'inyuguti 1 na 200.",

		KeyRegisterRequired: "Banza wiyandikishe kugira ngo ukoreshe iyi serivisi.",
		KeyAckFooter:        "0. Ahabanza",

		KeyNamePrompt:     "Andika amazina yawe yose:\n0. Subira inyuma",
		KeyProvincePrompt: "Hitamo intara yawe:\n%s\n0. Subira inyuma",
		KeyDistrictPrompt: "Hitamo akarere kawe:\n%s\n0. Subira inyuma",
		KeySectorPrompt:   "Hitamo umurenge wawe:\n%s\n0. Subira inyuma",
		KeyCellPrompt:     "Hitamo akagari kawe:\n%s\n0. Subira inyuma",
		KeyRegisterDone:   "Murakoze %s! Mwiyandikishije muri %s.",
		KeyUpdateDone:     "Amakuru yanyu yahinduwe.",
		KeyUpdateMenu:     "Ni iki mushaka guhindura?\n1. Izina\n2. Aho mutuye\n0. Ahabanza",

		KeyServiceTypePrompt: "Ni ubuhe bufasha mukeneye?\n1. Ubuhinzi (ibihingwa)\n2. Ubuvuzi bw'amatungo\n0. Subira inyuma",
		KeyDescriptionPrompt: "Sobanura ikibazo cyanyu muri make:\n0. Subira inyuma",
		KeyRequestAssigned:   "Ubusabe bwakiriwe. %s azabahamagara kuri %s.",
		KeyRequestNoMatch:    "Ubusabe bwakiriwe. Nta mpuguke ihari mu karere kanyu ubu; tuzabamenyesha ibonetse.",

		KeyTipsMenu: "Inama z'ubuhinzi:\n1. Gutegura ubutaka\n2. Ibihe byo gutera\n3. Kurwanya udukoko\n4. Kwita ku matungo\n0. Ahabanza",
		KeyTip1:     "Suzuma ubutaka mbere yo gutera kandi wongeremo ifumbire y'imborera.",
		KeyTip2:     "Igihembwe A ni Nzeri-Gashyantare, igihembwe B ni Werurwe-Nyakanga. Tera imvura itangiye.",
		KeyTip3:     "Genzura imyaka buri cyumweru. Kura ibihingwa byafashwe kare kandi usimburanye ibihingwa.",
		KeyTip4:     "Kingiza amatungo ku gihe kandi uyahe amazi meza buri munsi.",

		KeyStatusNone:   "Nta busabe murasaba.",
		KeyStatusHeader: "Ubusabe bwanyu bwa vuba:",
		KeyStatusLine:   "%d. %s - %s",

		KeyWeatherUnavailable: "Amakuru y'iteganyagihe ntabwo abonetse ubu. Ongera ugerageze nyuma.",
		KeyGoodbye:            "Murakoze gukoresha Umurima. Murabeho!",

		"status.label.pending":     "Birategerejwe",
		"status.label.assigned":    "Impuguke yabonetse",
		"status.label.no_match":    "Hategerejwe impuguke",
		"status.label.in_progress": "Birakorwa",
		"status.label.completed":   "Byarangiye",
		"status.label.cancelled":   "Byahagaritswe",

		"service.label.agronomy":   "Ubuhinzi",
		"service.label.veterinary": "Ubuvuzi bw'amatungo",
	},

	domain.LangSwahili: {
		KeyMainHeader:   "Umurima - Huduma za wakulima",
		KeyMainRegister: "Jisajili kama mkulima",
		KeyMainUpdate:   "Badilisha taarifa zangu",
		KeyMainRequest:  "Omba msaada wa mtaalamu",
		KeyMainTips:     "Ushauri wa kilimo",
		KeyMainWeather:  "Hali ya hewa",
		KeyMainStatus:   "Maombi yangu",
		KeyMainLanguage: "Badilisha lugha",
		KeyMainExit:     "Toka",

		KeyInvalidOption: "Chaguo si sahihi, jaribu tena.",
		KeyGenericError:  "Samahani, hitilafu imetokea. Jaribu tena baadaye.",
		KeyNameLength:    "Jina liwe kati ya herufi 1 na 50.",
		KeyDescLength:    "Maelezo yawe kati ya herufi 1 na 200.",

		KeyRegisterRequired: "Jisajili kwanza ili utumie huduma hii.",
		KeyAckFooter:        "0. Menyu kuu",

		KeyNamePrompt:     "Andika jina lako kamili:\n0. Rudi nyuma",
		KeyProvincePrompt: "Chagua mkoa wako:\n%s\n0. Rudi nyuma",
		KeyDistrictPrompt: "Chagua wilaya yako:\n%s\n0. Rudi nyuma",
		KeySectorPrompt:   "Chagua sekta yako:\n%s\n0. Rudi nyuma",
		KeyCellPrompt:     "Chagua seli yako:\n%s\n0. Rudi nyuma",
		KeyRegisterDone:   "Asante %s! Umesajiliwa katika %s.",
		KeyUpdateDone:     "Taarifa zako zimebadilishwa.",
		KeyUpdateMenu:     "Ungependa kubadilisha nini?\n1. Jina\n2. Mahali\n0. Menyu kuu",

		KeyServiceTypePrompt: "Unahitaji msaada gani?\n1. Kilimo (mazao)\n2. Mifugo\n0. Rudi nyuma",
		KeyDescriptionPrompt: "Eleza tatizo lako kwa ufupi:\n0. Rudi nyuma",
		KeyRequestAssigned:   "Ombi limepokelewa. %s atakupigia kwa %s.",
		KeyRequestNoMatch:    "Ombi limepokelewa. Hakuna mtaalamu katika eneo lako kwa sasa; tutakujulisha akipatikana.",

		KeyTipsMenu: "Ushauri wa kilimo:\n1. Kuandaa udongo\n2. Misimu ya kupanda\n3. Kudhibiti wadudu\n4. Utunzaji wa mifugo\n0. Menyu kuu",
		KeyTip1:     "Pima udongo kabla ya kupanda na ongeza mboji kuboresha rutuba.",
		KeyTip2:     "Msimu A ni Sep-Feb na msimu B ni Mar-Jul. Panda mvua zinapoanza.",
		KeyTip3:     "Kagua mashamba kila wiki. Ondoa mimea iliyoathirika mapema na badilisha mazao.",
		KeyTip4:     "Chanja mifugo kwa ratiba na wape maji safi kila siku.",

		KeyStatusNone:   "Huna maombi ya huduma bado.",
		KeyStatusHeader: "Maombi yako ya hivi karibuni:",
		KeyStatusLine:   "%d. %s - %s",

		KeyWeatherUnavailable: "Taarifa za hali ya hewa hazipatikani sasa. Jaribu tena baadaye.",
		KeyGoodbye:            "Asante kwa kutumia Umurima. Kwaheri!",

		"status.label.pending":     "Inasubiri",
		"status.label.assigned":    "Mtaalamu amepangwa",
		"status.label.no_match":    "Inasubiri mtaalamu",
		"status.label.in_progress": "Inaendelea",
		"status.label.completed":   "Imekamilika",
		"status.label.cancelled":   "Imesitishwa",

		"service.label.agronomy":   "Kilimo",
		"service.label.veterinary": "Mifugo",
	},
}

// ServiceKey returns the catalog key for a service type label.
func ServiceKey(s domain.ServiceType) string {
	return "service.label." + string(s)
}
