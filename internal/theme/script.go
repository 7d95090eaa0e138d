package theme

import (
	"bytes"
	"html/template"
	texttemplate "text/template"
)

// initScriptSrc mirrors ResolveWithSource: a valid stored value (the cookie the
// server keeps in sync, then localStorage) wins, then prefers-color-scheme: dark, then the default.
// It runs in <head> before first paint and exposes window.lmsTheme for the
// toggle script loaded at the end of <body>.
const initScriptSrc = `(function(){
  var KEY={{.Key}}, LIGHT={{.Light}}, DARK={{.Dark}}, DEF={{.Default}}, MAXAGE={{.MaxAge}};
  var root=document.documentElement;
  function valid(v){ return v===LIGHT||v===DARK; }
  function readStored(){
    var m=document.cookie.match(new RegExp('(?:^|; )'+KEY+'=([^;]*)'));
    if(m&&valid(m[1])) return m[1];
    try { var v=window.localStorage.getItem(KEY); if(valid(v)) return v; } catch(e){}
    return null;
  }
  function prefersDark(){
    try { return !!(window.matchMedia&&window.matchMedia('(prefers-color-scheme: dark)').matches); } catch(e){ return false; }
  }
  function resolve(){
    var s=readStored();
    if(s) return s;
    return prefersDark()?DARK:DEF;
  }
  function apply(t){
    if(!valid(t)) t=DEF;
    root.classList.remove(LIGHT,DARK);
    root.classList.add(t);
    try { window.localStorage.setItem(KEY,t); } catch(e){ if(window.console) console.warn('theme not persisted',e); }
    document.cookie=KEY+'='+t+'; Path=/; Max-Age='+MAXAGE+'; SameSite=Lax';
    return t;
  }
  function current(){ return root.classList.contains(DARK)?DARK:LIGHT; }
  function toggle(){ return apply(current()===DARK?LIGHT:DARK); }
  window.lmsTheme={resolve:resolve,apply:apply,toggle:toggle,current:current};
  apply(resolve());
})();`

var initScript template.JS

func init() {
	t := texttemplate.Must(texttemplate.New("theme-init").Parse(initScriptSrc))
	var buf bytes.Buffer
	err := t.Execute(&buf, struct {
		Key, Light, Dark, Default template.JS
		MaxAge                    int
	}{
		Key:     jsString(StorageKey),
		Light:   jsString(string(Light)),
		Dark:    jsString(string(Dark)),
		Default: jsString(string(Default)),
		MaxAge:  CookieMaxAge,
	})
	if err != nil {
		panic("render theme init script: " + err.Error())
	}
	initScript = template.JS(buf.String())
}

// InitScript returns the inline pre-paint script for the layout <head>.
func InitScript() template.JS {
	return initScript
}

func jsString(s string) template.JS {
	return template.JS("'" + template.JSEscapeString(s) + "'")
}
