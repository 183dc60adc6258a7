package export

// viewerHTML is the navigator document. Its script mirrors the Go packages:
// diagram scanning, the resolver order, the navigation history rules, the
// breadcrumb trail and the clamped viewport.
const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>__NAV_TITLE__</title>
<style>
:root{--bg:#0d1117;--bg2:#161b22;--bg3:#21262d;--tx:#e6edf3;--tx2:#8b949e;--bd:#30363d;--ac:#58a6ff;--err:#f85149}
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Helvetica,Arial,sans-serif;background:var(--bg);color:var(--tx);height:100vh;display:flex;flex-direction:column;overflow:hidden}
#header{padding:10px 16px;background:var(--bg2);border-bottom:1px solid var(--bd)}
#header h1{font-size:17px;font-weight:600}
#meta{font-size:12px;color:var(--tx2);margin-top:2px}
#description{font-size:13px;line-height:1.5;margin-top:6px;color:var(--tx)}
#description a{color:var(--ac)}
#toolbar{display:flex;align-items:center;justify-content:space-between;gap:12px;height:44px;padding:0 16px;background:var(--bg2);border-bottom:1px solid var(--bd)}
#breadcrumbs{display:flex;align-items:center;gap:6px;font-size:13px;overflow:hidden;white-space:nowrap}
.crumb{color:var(--ac);cursor:pointer}
.crumb:hover{text-decoration:underline}
.crumb.active{color:var(--tx);font-weight:600;cursor:default;text-decoration:none}
.sep{color:var(--tx2)}
.toolbar-section{display:flex;align-items:center;gap:8px}
.btn{background:var(--bg3);border:1px solid var(--bd);color:var(--tx);padding:4px 10px;border-radius:6px;font-size:12px;cursor:pointer}
.btn:hover{background:var(--bd)}
.btn:disabled{opacity:.4;cursor:default}
#main{display:flex;flex:1;min-height:0}
#sidebar{width:240px;min-width:240px;background:var(--bg2);border-right:1px solid var(--bd);overflow-y:auto;padding:12px}
#sidebar.hidden{display:none}
.sidebar-hdr{font-size:11px;font-weight:600;text-transform:uppercase;color:var(--tx2);margin-bottom:8px;letter-spacing:.5px}
.nav-item{padding:6px 8px;border-radius:6px;font-size:13px;cursor:pointer}
.nav-item:hover{background:var(--bg3)}
.nav-item.active{background:var(--bg3);color:var(--ac);font-weight:600}
#stage{flex:1;position:relative;overflow:hidden;background:#fff;cursor:grab}
#stage.dragging{cursor:grabbing}
#canvas{width:100%;height:100%;display:flex;align-items:center;justify-content:center}
#canvas svg{max-width:100%;max-height:100%;transform-origin:center center}
.placeholder{color:var(--err);font-size:15px;font-weight:600}
#hint{position:absolute;bottom:8px;right:12px;font-size:11px;color:#57606a;pointer-events:none}
</style>
</head>
<body>
<div id="header"><h1 id="project"></h1><div id="meta"></div><div id="description"></div></div>
<div id="toolbar">
 <div id="breadcrumbs"></div>
 <div class="toolbar-section">
  <span id="current-title"></span>
  <button class="btn" id="btn-back" title="Back (Backspace)">&#8592; Back</button>
  <button class="btn" id="btn-reset" title="Reset view (Esc)">Reset</button>
  <button class="btn" id="btn-fullscreen" title="Fullscreen (F)">Fullscreen</button>
  <button class="btn" id="btn-download" title="Download (D)">Download</button>
 </div>
</div>
<div id="main">
 <div id="sidebar" class="hidden"><div class="sidebar-hdr">Processes</div><div id="nav-list"></div></div>
 <div id="stage"><div id="canvas"></div><div id="hint">Scroll to zoom &middot; drag to pan &middot; click a sub-process to open it</div></div>
</div>
<script>
(function(){
"use strict";
var DATA = /*__NAV_DATA__*/null;
var MIN_SCALE = 0.1, MAX_SCALE = 5, ZOOM_OUT = 0.9, ZOOM_IN = 1.1;
var TITLE_KEYWORD = "subprocess";
var diagrams = DATA.diagrams;

function $(id){ return document.getElementById(id); }
function text(el, s){ el.textContent = s; return el; }

// Viewport: scale is clamped; panning adds raw pointer deltas.
function Viewport(){ this.el = null; this.reset(); }
Viewport.prototype.apply = function(){
  if (this.el) this.el.style.transform = "translate(" + this.tx + "px, " + this.ty + "px) scale(" + this.scale + ")";
};
Viewport.prototype.reset = function(){
  this.scale = 1; this.tx = 0; this.ty = 0; this.dragging = false;
  this.apply();
};
Viewport.prototype.attach = function(el){ this.el = el; this.reset(); };
Viewport.prototype.detach = function(){ this.el = null; this.dragging = false; };
Viewport.prototype.wheel = function(dy){
  if (!this.el) return;
  var s = this.scale * (dy > 0 ? ZOOM_OUT : ZOOM_IN);
  this.scale = Math.min(MAX_SCALE, Math.max(MIN_SCALE, s));
  this.apply();
};
Viewport.prototype.down = function(x, y, onShape){
  if (!this.el || onShape) return;
  this.dragging = true; this.lx = x; this.ly = y;
};
Viewport.prototype.move = function(x, y){
  if (!this.dragging) return;
  this.tx += x - this.lx; this.ty += y - this.ly;
  this.lx = x; this.ly = y;
  this.apply();
};
Viewport.prototype.up = function(){ this.dragging = false; };

function resolve(id){
  var needle = (id || "").toLowerCase();
  for (var i = 1; i < diagrams.length; i++) {
    var d = diagrams[i];
    if (needle !== "" && d.filename.toLowerCase().indexOf(needle) >= 0) return i;
    if (d.title.toLowerCase().indexOf(TITLE_KEYWORD) >= 0) return i;
  }
  return diagrams.length > 1 ? 1 : -1;
}

function shapeId(el){
  for (var cur = el; cur && cur.getAttribute; cur = cur.parentNode) {
    var v = cur.getAttribute("data-element-id");
    if (v) return v;
  }
  return "";
}

function scanShapes(svg){
  var found = [];
  var markers = svg.querySelectorAll('[data-marker="sub-process"]');
  markers.forEach(function(m){ if (found.indexOf(m) < 0) found.push(m); });
  markers.forEach(function(m){
    if (!m.parentNode || !m.parentNode.querySelectorAll) return;
    m.parentNode.querySelectorAll("rect").forEach(function(r){
      if (r.parentNode.firstElementChild !== r && found.indexOf(r) < 0) found.push(r);
    });
  });
  return found;
}

var state = { loaded: false, current: 0, history: [], bindings: [] };
var vp = new Viewport();
var stage = $("stage"), canvas = $("canvas");

function validIndex(i){ return typeof i === "number" && i >= 0 && i < diagrams.length; }

function unbind(){
  state.bindings.forEach(function(b){
    b.el.removeEventListener("click", b.fn);
    b.el.style.cursor = "";
  });
  state.bindings = [];
}

function bind(svg){
  scanShapes(svg).forEach(function(el){
    var id = shapeId(el);
    var fn = function(ev){ ev.stopPropagation(); clickShape(id); };
    el.addEventListener("click", fn);
    el.style.cursor = "pointer";
    var tip = document.createElementNS("http://www.w3.org/2000/svg", "title");
    tip.textContent = "Open sub-process";
    el.appendChild(tip);
    state.bindings.push({ el: el, fn: fn });
  });
}

function onShape(target){
  for (var cur = target; cur && cur !== stage; cur = cur.parentNode) {
    for (var i = 0; i < state.bindings.length; i++) {
      if (state.bindings[i].el === cur) return true;
    }
  }
  return false;
}

function load(index){
  if (!validIndex(index)) return false;
  unbind();
  vp.detach();
  state.current = index;
  state.loaded = true;
  try {
    canvas.innerHTML = diagrams[index].content;
    var svg = canvas.querySelector("svg");
    if (!svg) throw new Error("no svg element");
    vp.attach(svg);
    bind(svg);
  } catch (e) {
    unbind();
    vp.detach();
    canvas.innerHTML = "";
    canvas.appendChild(text(document.createElement("div"), "❌ " + DATA.render_failure)).className = "placeholder";
    if (window.console) console.error("loading diagram", index, e);
  }
  renderChrome();
  return true;
}

function drillInto(index){
  if (!validIndex(index)) return;
  if (state.loaded && index !== state.current) state.history.push({ index: state.current, title: diagrams[state.current].title });
  load(index);
}

function navigateTo(index){
  if (!validIndex(index)) return;
  if (index === 0) { state.history = []; load(0); return; }
  var pos = -1;
  for (var i = 0; i < state.history.length; i++) {
    if (state.history[i].index === index) { pos = i; break; }
  }
  if (pos < 0) return;
  state.history = state.history.slice(0, pos).filter(function(s){ return s.index !== 0; });
  load(index);
}

function goBack(){
  if (state.history.length === 0) return;
  var last = state.history.pop();
  load(last.index);
}

function select(index){
  if (!validIndex(index)) return;
  state.history = [];
  load(index);
}

function clickShape(id){
  var index = resolve(id);
  if (index < 0) { alert(DATA.not_found); return; }
  drillInto(index);
}

function breadcrumbTrail(){
  var middle = state.history.filter(function(s){ return s.index !== 0; });
  if (state.current === 0 && middle.length === 0) {
    return [{ label: DATA.root_label, target: 0, active: true }];
  }
  var trail = [{ label: DATA.root_label, target: 0, active: false }];
  middle.forEach(function(s){ trail.push({ label: s.title, target: s.index, active: false }); });
  var label = state.current === 0 ? DATA.root_label : diagrams[state.current].title;
  trail.push({ label: label, target: state.current, active: true });
  return trail;
}

function downloadCurrent(){
  if (!state.loaded) return;
  try {
    var d = diagrams[state.current];
    var blob = new Blob([d.content], { type: "image/svg+xml" });
    var url = URL.createObjectURL(blob);
    var a = document.createElement("a");
    a.href = url; a.download = d.filename;
    document.body.appendChild(a); a.click(); a.remove();
    setTimeout(function(){ URL.revokeObjectURL(url); }, 0);
  } catch (e) {
    if (window.console) console.error("download failed", e);
  }
}

function toggleFullscreen(){
  try {
    if (!document.fullscreenElement) stage.requestFullscreen();
    else document.exitFullscreen();
  } catch (e) {
    if (window.console) console.error("fullscreen", e);
  }
}

function renderChrome(){
  text($("current-title"), state.loaded ? diagrams[state.current].title : "");
  var crumbs = $("breadcrumbs");
  crumbs.innerHTML = "";
  if (DATA.mode === "flat") {
    var list = $("nav-list");
    list.innerHTML = "";
    diagrams.forEach(function(d){
      var item = text(document.createElement("div"), d.title);
      item.className = "nav-item" + (state.loaded && d.index === state.current ? " active" : "");
      item.addEventListener("click", function(){ select(d.index); });
      list.appendChild(item);
    });
    return;
  }
  breadcrumbTrail().forEach(function(c, i){
    if (i > 0) crumbs.appendChild(text(document.createElement("span"), "›")).className = "sep";
    var el = text(document.createElement("span"), (i === 0 ? "🏠 " : "") + c.label);
    el.className = "crumb" + (c.active ? " active" : "");
    if (!c.active) el.addEventListener("click", function(){ navigateTo(c.target); });
    crumbs.appendChild(el);
  });
  $("btn-back").disabled = state.history.length === 0;
}

function renderHeader(){
  text($("project"), DATA.project || "Process Navigator");
  var parts = [];
  if (DATA.exported_at) parts.push("Exported " + new Date(DATA.exported_at).toLocaleString());
  parts.push(DATA.total_processes + (DATA.total_processes === 1 ? " process" : " processes"));
  text($("meta"), parts.join(" · "));
  $("description").innerHTML = DATA.description_html || "";
  if (DATA.mode === "flat") {
    $("sidebar").classList.remove("hidden");
    $("btn-back").style.display = "none";
  }
}

stage.addEventListener("wheel", function(e){ e.preventDefault(); vp.wheel(e.deltaY); }, { passive: false });
stage.addEventListener("mousedown", function(e){
  vp.down(e.clientX, e.clientY, onShape(e.target));
  if (vp.dragging) { stage.classList.add("dragging"); e.preventDefault(); }
});
document.addEventListener("mousemove", function(e){ vp.move(e.clientX, e.clientY); });
document.addEventListener("mouseup", function(){ vp.up(); stage.classList.remove("dragging"); });

$("btn-back").addEventListener("click", goBack);
$("btn-reset").addEventListener("click", function(){ vp.reset(); });
$("btn-fullscreen").addEventListener("click", toggleFullscreen);
$("btn-download").addEventListener("click", downloadCurrent);

document.addEventListener("keydown", function(e){
  var tag = e.target && e.target.tagName;
  if (tag === "INPUT" || tag === "TEXTAREA") return;
  if (e.key === "Escape") { vp.reset(); }
  else if (e.key === "f" || e.key === "F") { toggleFullscreen(); }
  else if (e.key === "d" || e.key === "D") { downloadCurrent(); }
  else if (DATA.mode !== "flat" && (e.key === "Backspace" || (e.altKey && e.key === "ArrowLeft"))) { e.preventDefault(); goBack(); }
});

renderHeader();
load(0);
})();
</script>
</body>
</html>
`
