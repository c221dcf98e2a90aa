package game

const (
	msgUnknownShopItem   = "Kioski hämmentyy: tuntematon esine."
	msgShopClosed        = "Kioski on kiinni."
	msgInsufficientFunds = "Ei varaa tähän ostokseen."
	msgInventoryFull     = "Reppu on täynnä."
	msgBought            = "Ostit esineen: %s."

	msgUnknownItem = "Tuntematon esine."
	msgNotCarried  = "%s ei ole mukana."
	msgNoEffect    = "%s ei tee mitään kummempaa."
	msgUsed        = "Käytit esinettä: %s."

	msgEnergySaturated = "Olet jo aivan tärinöissä, et tarvitse tätä."
	msgHeatSaturated   = "Olet jo lämmin."
	msgSanitySaturated = "Psyyke on jo täysissä, et tarvitse tätä."

	msgInsufficientEnergy = "insufficient energy"
	msgTaskCompleted      = "Tehtävä suoritettu"
	msgStartNewGame       = "Talvi alkaa. Päätä selviytymisen suunta."
)
